package allocation

import (
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// SurplusLedger excedente disponible por (sitio, NDC) durante una pasada.
// Es el único estado mutable del planificador: se crea por pasada y se descarta al final.
// No es seguro para uso concurrente; cada pasada tiene el suyo.
type SurplusLedger struct {
	initial   map[string]int64
	available map[string]int64
}

// NewSurplusLedger inicializa el libro con el excedente de cada registro al inicio de la pasada.
func NewSurplusLedger(records []entity.InventoryRecord) *SurplusLedger {
	l := &SurplusLedger{
		initial:   make(map[string]int64, len(records)),
		available: make(map[string]int64, len(records)),
	}
	for i := range records {
		s := records[i].Surplus()
		if s <= 0 {
			continue
		}
		k := key(records[i].SiteID, records[i].NDC)
		l.initial[k] = s
		l.available[k] = s
	}
	return l
}

// Available unidades aún no comprometidas.
func (l *SurplusLedger) Available(siteID, ndc string) int64 {
	return l.available[key(siteID, ndc)]
}

// Initial excedente al inicio de la pasada.
func (l *SurplusLedger) Initial(siteID, ndc string) int64 {
	return l.initial[key(siteID, ndc)]
}

// Consumed unidades comprometidas en la pasada.
func (l *SurplusLedger) Consumed(siteID, ndc string) int64 {
	k := key(siteID, ndc)
	return l.initial[k] - l.available[k]
}

// Consume descuenta qty del excedente del origen.
func (l *SurplusLedger) Consume(siteID, ndc string, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("consume %s/%s: cantidad %d: %w", siteID, ndc, qty, domain.ErrInvalidInput)
	}
	k := key(siteID, ndc)
	if l.available[k] < qty {
		return fmt.Errorf("consume %s/%s: pedido %d, disponible %d: %w", siteID, ndc, qty, l.available[k], domain.ErrSurplusExhausted)
	}
	l.available[k] -= qty
	return nil
}
