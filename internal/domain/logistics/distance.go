package logistics

import (
	"math"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

const (
	earthRadiusKm = 6371.0
	// DefaultTortuosity aproxima la distancia por carretera a partir de la geodésica.
	DefaultTortuosity = 1.35
)

// Haversine distancia de gran círculo en kilómetros.
func Haversine(a, b entity.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoadDistance distancia geodésica escalada por el factor de tortuosidad.
func RoadDistance(a, b entity.Coordinates, tortuosity float64) float64 {
	if tortuosity <= 0 {
		tortuosity = 1
	}
	return Haversine(a, b) * tortuosity
}

// RouteTable distancias por carretera obtenidas de una fuente externa,
// indexadas por par origen/destino. Un par ausente usa el cálculo local.
type RouteTable map[string]float64

// RouteKey clave "origen|destino".
func RouteKey(sourceID, targetID string) string {
	return sourceID + "|" + targetID
}

// Lookup distancia registrada para el par, si existe.
func (t RouteTable) Lookup(sourceID, targetID string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	km, ok := t[RouteKey(sourceID, targetID)]
	if !ok || km < 0 {
		return 0, false
	}
	return km, true
}
