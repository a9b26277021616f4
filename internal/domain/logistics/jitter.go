package logistics

import (
	"math/rand/v2"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// Jitter fuente de variación del ETA mostrado. No participa en la selección.
type Jitter interface {
	TrafficFactor(method entity.TransportMethod) float64
	WeatherDelayMinutes() float64
}

// RandomJitter tráfico uniforme en [1.0, 1.4] (bicicleta acotada a 1.2, dron sin tráfico)
// y 20% de probabilidad de 10 minutos de retraso por clima.
type RandomJitter struct{}

func (RandomJitter) TrafficFactor(method entity.TransportMethod) float64 {
	switch method {
	case entity.TransportDrone, entity.TransportVendor:
		return 1
	case entity.TransportBike:
		return min(1+rand.Float64()*0.4, 1.2)
	default:
		return 1 + rand.Float64()*0.4
	}
}

func (RandomJitter) WeatherDelayMinutes() float64 {
	if rand.Float64() < 0.2 {
		return 10
	}
	return 0
}

// NoJitter ETA igual al tiempo base; útil en pruebas y en el CLI.
type NoJitter struct{}

func (NoJitter) TrafficFactor(entity.TransportMethod) float64 { return 1 }
func (NoJitter) WeatherDelayMinutes() float64                 { return 0 }
