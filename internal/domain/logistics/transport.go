package logistics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// bulkThreshold unidades a partir de las cuales un envío se considera voluminoso.
const bulkThreshold = 50

// Rate tarifa y desempeño de un medio de transporte.
type Rate struct {
	Base        decimal.Decimal
	PerKm       decimal.Decimal
	SpeedKmh    float64
	HandlingMin float64
}

// DefaultRates tarifas vigentes por medio de transporte.
func DefaultRates() map[entity.TransportMethod]Rate {
	return map[entity.TransportMethod]Rate{
		entity.TransportDrone:           {Base: decimal.NewFromInt(15), PerKm: decimal.RequireFromString("0.5"), SpeedKmh: 60, HandlingMin: 5},
		entity.TransportBike:            {Base: decimal.NewFromInt(10), PerKm: decimal.RequireFromString("1.5"), SpeedKmh: 12, HandlingMin: 10},
		entity.TransportCar:             {Base: decimal.NewFromInt(25), PerKm: decimal.NewFromInt(2), SpeedKmh: 25, HandlingMin: 15},
		entity.TransportRefrigeratedVan: {Base: decimal.NewFromInt(50), PerKm: decimal.RequireFromString("3.5"), SpeedKmh: 35, HandlingMin: 20},
		entity.TransportFreight:         {Base: decimal.NewFromInt(100), PerKm: decimal.NewFromInt(1), SpeedKmh: 50, HandlingMin: 45},
	}
}

// SelectMethod elige el medio de transporte. Las reglas se evalúan en orden fijo:
// cadena de frío, dron, bicicleta, carga pesada y, por defecto, automóvil.
func SelectMethod(distanceKm float64, quantity int64, urgency entity.Urgency, coldChain bool) entity.TransportMethod {
	bulk := quantity > bulkThreshold
	switch {
	case coldChain:
		return entity.TransportRefrigeratedVan
	case distanceKm < 5 && !bulk && urgency != entity.UrgencyRoutine:
		return entity.TransportDrone
	case distanceKm < 3 && !bulk:
		return entity.TransportBike
	case distanceKm > 50 && urgency == entity.UrgencyRoutine:
		return entity.TransportFreight
	default:
		return entity.TransportCar
	}
}

// UrgencyMultiplier recargo sobre el costo de transporte (nunca sobre el costo del artículo).
func UrgencyMultiplier(u entity.Urgency) decimal.Decimal {
	switch u {
	case entity.UrgencyEmergency:
		return decimal.RequireFromString("1.5")
	case entity.UrgencyUrgent:
		return decimal.RequireFromString("1.2")
	default:
		return decimal.NewFromInt(1)
	}
}
