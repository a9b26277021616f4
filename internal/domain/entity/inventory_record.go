package entity

import "time"

// StockStatus estado derivado de un registro de inventario.
type StockStatus string

const (
	StockCritical    StockStatus = "critical"
	StockLow         StockStatus = "low"
	StockWellStocked StockStatus = "well_stocked"
	StockOverstocked StockStatus = "overstocked"
)

// InventoryRecord existencias de un medicamento (NDC) en un sitio.
// Lo mutan los check-in/check-out y las transferencias completadas; el motor
// de asignación solo lo lee.
type InventoryRecord struct {
	NetworkID string // red que cargó el registro; acota los de sitios desconocidos
	SiteID    string
	NDC       string
	DrugName  string
	Quantity  int64
	MinLevel  int64
	MaxLevel  int64
	UpdatedAt time.Time
}

// Status deriva el estado a partir de la cantidad y los umbrales.
//   - critical: cantidad < min/2
//   - low: cantidad < min
//   - overstocked: cantidad > max
//   - well_stocked: resto
func (r *InventoryRecord) Status() StockStatus {
	switch {
	case r.Quantity*2 < r.MinLevel:
		return StockCritical
	case r.Quantity < r.MinLevel:
		return StockLow
	case r.Quantity > r.MaxLevel:
		return StockOverstocked
	default:
		return StockWellStocked
	}
}

// NeedsReplenishment true para registros low o critical.
func (r *InventoryRecord) NeedsReplenishment() bool {
	s := r.Status()
	return s == StockLow || s == StockCritical
}

// Surplus unidades que el sitio puede ceder sin quedar desabastecido.
// Un sitio sobre-abastecido solo libera el exceso sobre el máximo; uno bien
// abastecido libera lo que tenga sobre el mínimo. Nunca negativo.
func (r *InventoryRecord) Surplus() int64 {
	var s int64
	switch r.Status() {
	case StockOverstocked:
		s = r.Quantity - r.MaxLevel
	case StockWellStocked:
		s = r.Quantity - r.MinLevel
	}
	if s < 0 {
		return 0
	}
	return s
}

// Deficit unidades faltantes para llegar al máximo.
func (r *InventoryRecord) Deficit() int64 {
	if d := r.MaxLevel - r.Quantity; d > 0 {
		return d
	}
	return 0
}
