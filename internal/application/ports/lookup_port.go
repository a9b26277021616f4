package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PriceQuote respuesta del marketplace para un NDC.
type PriceQuote struct {
	NDC          string
	UnitPrice    decimal.Decimal
	Supplier     string
	InStock      bool
	LeadTimeDays int
}

// PricingLookup puerto de salida hacia el marketplace de precios.
// El contexto debe llevar un timeout; un error implica usar el precio de catálogo.
type PricingLookup interface {
	Quote(ctx context.Context, ndc string) (*PriceQuote, error)
}

// RouteLookup puerto de salida hacia el servicio de rutas por carretera.
// Un error implica usar haversine × tortuosidad.
type RouteLookup interface {
	RoadDistanceKm(ctx context.Context, from, to entity.Coordinates) (float64, error)
}
