package entity

import (
	"math"
	"strings"
)

// Urgency urgencia de una necesidad; afecta el medio de transporte, el costo y el puntaje.
type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Rank orden de prioridad (mayor = más urgente).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyEmergency:
		return 2
	case UrgencyUrgent:
		return 1
	}
	return 0
}

// Provenance origen de una porción de la demanda.
type Provenance string

const (
	ProvenanceInventoryDeficit Provenance = "inventory_deficit"
	ProvenancePatientForecast  Provenance = "patient_forecast"
)

// DemandSignal necesidad agregada de un par (sitio, NDC) para una pasada.
// Se construye de nuevo en cada pasada; es efímera.
type DemandSignal struct {
	SiteID        string
	NDC           string
	DrugName      string
	Quantity      int64
	DeficitQty    int64
	ForecastQty   int64
	OnHand        int64
	MinLevel      int64
	Urgency       Urgency
	Provenance    []Provenance
	Justification string
}

// Key identificador estable "sitio|ndc".
func (d *DemandSignal) Key() string {
	return d.SiteID + "|" + d.NDC
}

// AddDeficit acumula demanda por déficit de inventario.
func (d *DemandSignal) AddDeficit(qty int64, why string) {
	d.DeficitQty = addSaturated(d.DeficitQty, qty)
	d.Quantity = addSaturated(d.Quantity, qty)
	d.addProvenance(ProvenanceInventoryDeficit, why)
}

// AddForecast acumula demanda por tratamiento agendado.
func (d *DemandSignal) AddForecast(qty int64, why string) {
	d.ForecastQty = addSaturated(d.ForecastQty, qty)
	d.Quantity = addSaturated(d.Quantity, qty)
	d.addProvenance(ProvenancePatientForecast, why)
}

// addSaturated suma cantidades no negativas sin desbordar; las negativas se ignoran
// para que ninguna fuente reste demanda real.
func addSaturated(total, qty int64) int64 {
	if qty <= 0 {
		return total
	}
	if total > math.MaxInt64-qty {
		return math.MaxInt64
	}
	return total + qty
}

func (d *DemandSignal) addProvenance(p Provenance, why string) {
	found := false
	for _, existing := range d.Provenance {
		if existing == p {
			found = true
			break
		}
	}
	if !found {
		d.Provenance = append(d.Provenance, p)
	}
	if why == "" {
		return
	}
	if d.Justification == "" {
		d.Justification = why
		return
	}
	// Las justificaciones se concatenan, nunca se sobrescriben.
	d.Justification = strings.Join([]string{d.Justification, why}, "; ")
}

// ClassifyUrgency urgencia según existencias: sin stock = emergencia,
// por debajo de la mitad del mínimo = urgente.
func ClassifyUrgency(onHand, minLevel int64) Urgency {
	switch {
	case onHand <= 0:
		return UrgencyEmergency
	case onHand*2 < minLevel:
		return UrgencyUrgent
	default:
		return UrgencyRoutine
	}
}
