package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
)

// Candidate opción de abastecimiento para una señal. Las variantes son
// *TransferCandidate y *ProcurementCandidate; el ranking las trata igual.
type Candidate interface {
	Kind() entity.ProposalKind
	Offered() int64
	TotalCost() decimal.Decimal
	Score(policy ScoringPolicy) float64
	Proposal(signal entity.DemandSignal) entity.Proposal
}

// TransferCandidate traslado desde otro sitio con excedente.
type TransferCandidate struct {
	Source       *entity.Site
	Target       *entity.Site
	Record       *entity.InventoryRecord // registro del origen
	TransferKind entity.TransferKind
	DrugName     string
	Quantity     int64
	Urgency      entity.Urgency
	Quote        logistics.Quote
	Trace        []entity.TraceEntry
	Savings      decimal.Decimal
}

func (c *TransferCandidate) Kind() entity.ProposalKind { return entity.ProposalTransfer }
func (c *TransferCandidate) Offered() int64            { return c.Quantity }

// TotalCost solo transporte: el artículo ya es propiedad de la red.
func (c *TransferCandidate) TotalCost() decimal.Decimal { return c.Quote.TransportCost }

// Score parte de la base y descuenta distancia, costo y tiempo base; suma
// bonificaciones por urgencia, balanceo de red y formulación pediátrica.
func (c *TransferCandidate) Score(p ScoringPolicy) float64 {
	cost, _ := c.Quote.TransportCost.Float64()
	score := p.TransferBase -
		c.Quote.DistanceKm*p.DistancePenaltyPerKm -
		cost*p.CostPenaltyPerUnit -
		c.Quote.BaseMinutes*p.TimePenaltyPerMinute

	switch c.Urgency {
	case entity.UrgencyEmergency:
		if c.Quote.BaseMinutes < p.EmergencyFastMinutes {
			score += p.EmergencyFastBonus
		}
	case entity.UrgencyUrgent:
		score += p.UrgentBonus
	}
	score += p.balancingBonus(c.Record)
	score += p.pediatricBonus(c.Target, c.DrugName)
	return clamp(score)
}

func (c *TransferCandidate) reasons(p ScoringPolicy) []string {
	var out []string
	switch {
	case c.Record.Status() == entity.StockOverstocked:
		out = append(out, fmt.Sprintf("Balanceo de red: liberando exceso de %s", c.Source.Name))
	case c.Record.Quantity-c.Record.MinLevel > 50:
		out = append(out, fmt.Sprintf("El origen tiene excedente alto (%d unidades)", c.Record.Quantity))
	}
	out = append(out, fmt.Sprintf("%s (%.0f min)", c.Quote.Method, c.Quote.BaseMinutes))
	if c.Quote.DistanceKm < 5 {
		out = append(out, fmt.Sprintf("Traslado hiper-local (%.1f km)", c.Quote.DistanceKm))
	} else {
		out = append(out, fmt.Sprintf("Ruta: %.1f km", c.Quote.DistanceKm))
	}
	if p.pediatricBonus(c.Target, c.DrugName) > 0 {
		out = append(out, "Formulación adecuada para sitio pediátrico")
	}
	if c.Urgency == entity.UrgencyEmergency {
		out = append(out, "Crítico: reposición inmediata requerida")
	}
	if c.TransferKind == entity.TransferInternal {
		out = append(out, "Transferencia interna (control común)")
	}
	return out
}

func (c *TransferCandidate) Proposal(signal entity.DemandSignal) entity.Proposal {
	return entity.Proposal{
		Kind:            entity.ProposalTransfer,
		TransferKind:    c.TransferKind,
		Signal:          signal,
		NDC:             signal.NDC,
		DrugName:        signal.DrugName,
		Quantity:        c.Quantity,
		SourceSiteID:    c.Source.ID,
		TargetSiteID:    c.Target.ID,
		TransportMethod: c.Quote.Method,
		Cost: entity.CostBreakdown{
			DistanceKm:    c.Quote.DistanceKm,
			UnitPrice:     decimal.Zero,
			TransportCost: c.Quote.TransportCost,
			ItemCost:      decimal.Zero,
			TotalCost:     c.TotalCost(),
			Savings:       c.Savings,
		},
		EtaMinutes: c.Quote.EtaMinutes,
		Trace:      c.Trace,
	}
}

// ProcurementCandidate compra por un canal (WAC, GPO o 340B).
type ProcurementCandidate struct {
	Target    *entity.Site
	Channel   entity.Channel
	Supplier  string
	UnitPrice decimal.Decimal
	Quantity  int64
	Quote     logistics.Quote
	Trace     []entity.TraceEntry
}

func (c *ProcurementCandidate) Kind() entity.ProposalKind { return entity.ProposalProcurement }
func (c *ProcurementCandidate) Offered() int64            { return c.Quantity }

func (c *ProcurementCandidate) itemCost() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity)).Round(2)
}

// TotalCost artículo más tramo del proveedor.
func (c *ProcurementCandidate) TotalCost() decimal.Decimal {
	return c.itemCost().Add(c.Quote.TransportCost)
}

// Score puntaje fijo por canal según la política.
func (c *ProcurementCandidate) Score(p ScoringPolicy) float64 {
	return clamp(p.ChannelScores[c.Channel])
}

func (c *ProcurementCandidate) Proposal(signal entity.DemandSignal) entity.Proposal {
	return entity.Proposal{
		Kind:            entity.ProposalProcurement,
		Signal:          signal,
		NDC:             signal.NDC,
		DrugName:        signal.DrugName,
		Quantity:        c.Quantity,
		TargetSiteID:    c.Target.ID,
		Channel:         c.Channel,
		Supplier:        c.Supplier,
		TransportMethod: c.Quote.Method,
		Cost: entity.CostBreakdown{
			DistanceKm:    c.Quote.DistanceKm,
			UnitPrice:     c.UnitPrice,
			TransportCost: c.Quote.TransportCost,
			ItemCost:      c.itemCost(),
			TotalCost:     c.TotalCost(),
			Savings:       decimal.Zero,
		},
		EtaMinutes: c.Quote.EtaMinutes,
		Trace:      c.Trace,
		Reasons:    []string{fmt.Sprintf("Compra %s a %s", c.Channel, c.UnitPrice.StringFixed(2))},
	}
}
