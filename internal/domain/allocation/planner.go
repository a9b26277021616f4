// Package allocation agrega la demanda de la red y decide, para cada señal,
// la mejor opción de abastecimiento conforme: transferencia o compra.
package allocation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
	"github.com/jhoicas/Suministros-api/internal/domain/regulatory"
)

// UnfulfillableReason motivo reportado cuando no existe candidato conforme.
const UnfulfillableReason = "no compliant source, no eligible channel"

// channels orden de enumeración de los canales de compra.
var channels = []entity.Channel{entity.ChannelWAC, entity.ChannelGPO, entity.Channel340B}

// Config parámetros de precio y ámbito de una pasada.
type Config struct {
	PatientSetting   entity.PatientSetting
	GPODiscount      decimal.Decimal
	Discount340B     decimal.Decimal
	DefaultUnitPrice decimal.Decimal
	DefaultSupplier  string
}

// DefaultConfig GPO 25% y 340B 50% sobre el precio de lista; uso ambulatorio.
func DefaultConfig() Config {
	return Config{
		PatientSetting:   entity.SettingOutpatient,
		GPODiscount:      decimal.RequireFromString("0.25"),
		Discount340B:     decimal.RequireFromString("0.50"),
		DefaultUnitPrice: decimal.NewFromInt(100),
		DefaultSupplier:  "Wholesaler",
	}
}

// Result salida de una pasada. Las propuestas son valores inmutables.
type Result struct {
	Proposals   []entity.Proposal
	Unfulfilled []entity.UnfulfilledDemand
	Rejections  []entity.Rejection
	Diagnostics []entity.Diagnostic
}

// Planner planificador de asignación. Sin estado propio entre pasadas: es
// seguro llamar Plan desde varias goroutines con snapshots distintos o iguales.
type Planner struct {
	gate   *regulatory.Gate
	costs  *logistics.CostModel
	policy ScoringPolicy
	cfg    Config
}

// NewPlanner construye el planificador.
func NewPlanner(gate *regulatory.Gate, costs *logistics.CostModel, policy ScoringPolicy, cfg Config) *Planner {
	if gate == nil {
		gate = regulatory.NewDefaultGate()
	}
	if costs == nil {
		costs = logistics.NewCostModel(logistics.DefaultTortuosity, logistics.DefaultVendorDistanceKm)
	}
	if cfg.PatientSetting == "" {
		cfg.PatientSetting = entity.SettingOutpatient
	}
	if cfg.DefaultUnitPrice.IsZero() {
		cfg.DefaultUnitPrice = decimal.NewFromInt(100)
	}
	return &Planner{gate: gate, costs: costs, policy: policy, cfg: cfg}
}

// WithPatientSetting copia del planificador con otro ámbito de uso.
func (p *Planner) WithPatientSetting(setting entity.PatientSetting) *Planner {
	if setting == "" || setting == p.cfg.PatientSetting {
		return p
	}
	cp := *p
	cp.cfg.PatientSetting = setting
	return &cp
}

// Plan ejecuta una pasada completa con un libro de excedentes nuevo.
func (p *Planner) Plan(snap *Snapshot, signals []entity.DemandSignal) Result {
	return p.PlanWithLedger(snap, signals, NewSurplusLedger(snap.Inventory))
}

// PlanWithLedger ejecuta la pasada descontando del libro indicado. El libro
// pertenece a la pasada y no debe compartirse con otra.
func (p *Planner) PlanWithLedger(snap *Snapshot, signals []entity.DemandSignal, ledger *SurplusLedger) Result {
	var res Result
	costs := p.costs.WithRoutes(snap.Routes)

	ordered := append([]entity.DemandSignal(nil), signals...)
	SortSignals(ordered)

	for _, sig := range ordered {
		if sig.Quantity <= 0 {
			continue
		}
		target, ok := snap.Site(sig.SiteID)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, inputError(sig.SiteID, sig.NDC,
				fmt.Sprintf("señal omitida: sitio %s no existe", sig.SiteID)))
			continue
		}
		p.resolve(snap, costs, ledger, sig, target, &res)
	}
	return res
}

// scored candidato con su puntaje y orden de inserción.
type scored struct {
	c     Candidate
	score float64
	order int
}

// resolve elige la mejor opción para la señal, compromete el excedente y, si la
// transferencia no cubre todo, agrega una compra por el remanente.
func (p *Planner) resolve(snap *Snapshot, costs *logistics.CostModel, ledger *SurplusLedger, sig entity.DemandSignal, target *entity.Site, res *Result) {
	drug := p.drug(snap, sig)

	procurements, rejected := p.procurementCandidates(snap, costs, sig, target, drug, sig.Quantity)
	res.Rejections = append(res.Rejections, rejected...)
	transfers, rejected, diags := p.transferCandidates(snap, costs, ledger, sig, target, drug)
	res.Rejections = append(res.Rejections, rejected...)
	res.Diagnostics = append(res.Diagnostics, diags...)

	cands := make([]Candidate, 0, len(procurements)+len(transfers))
	for _, c := range procurements {
		cands = append(cands, c)
	}
	for _, c := range transfers {
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		p.unfulfilled(sig, sig.Quantity, res)
		return
	}

	best := p.rank(cands)[0]
	prop := best.c.Proposal(sig)
	prop.Score = best.score

	tc, isTransfer := best.c.(*TransferCandidate)
	if !isTransfer {
		res.Proposals = append(res.Proposals, prop)
		return
	}

	if err := ledger.Consume(tc.Source.ID, sig.NDC, tc.Quantity); err != nil {
		// El candidato se armó con el disponible del libro; no debería ocurrir.
		res.Diagnostics = append(res.Diagnostics, inputError(sig.SiteID, sig.NDC, err.Error()))
		return
	}
	prop.Reasons = tc.reasons(p.policy)

	remainder := sig.Quantity - tc.Quantity
	if remainder <= 0 {
		res.Proposals = append(res.Proposals, prop)
		return
	}

	// Cobertura completa: el faltante va al mejor canal de compra elegible.
	prop.Split = true
	res.Proposals = append(res.Proposals, prop)

	rest, _ := p.procurementCandidates(snap, costs, sig, target, drug, remainder)
	if len(rest) == 0 {
		p.unfulfilled(sig, remainder, res)
		return
	}
	restCands := make([]Candidate, 0, len(rest))
	for _, c := range rest {
		restCands = append(restCands, c)
	}
	top := p.rank(restCands)[0]
	buy := top.c.Proposal(sig)
	buy.Score = top.score
	buy.Split = true
	buy.Reasons = append(buy.Reasons, fmt.Sprintf("Remanente de %d unidades tras transferencia desde %s", remainder, tc.Source.ID))
	res.Proposals = append(res.Proposals, buy)
}

// rank ordena por puntaje descendente, luego menor costo total, luego orden de inserción.
func (p *Planner) rank(cands []Candidate) []scored {
	out := make([]scored, len(cands))
	for i, c := range cands {
		out[i] = scored{c: c, score: c.Score(p.policy), order: i}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		ci, cj := out[i].c.TotalCost(), out[j].c.TotalCost()
		if !ci.Equal(cj) {
			return ci.LessThan(cj)
		}
		return out[i].order < out[j].order
	})
	return out
}

func (p *Planner) unfulfilled(sig entity.DemandSignal, qty int64, res *Result) {
	res.Unfulfilled = append(res.Unfulfilled, entity.UnfulfilledDemand{Signal: sig, Quantity: qty, Reason: UnfulfillableReason})
	res.Diagnostics = append(res.Diagnostics, entity.Diagnostic{
		Kind:    entity.DiagnosticUnfulfillable,
		SiteID:  sig.SiteID,
		NDC:     sig.NDC,
		Message: fmt.Sprintf("%d unidades sin cubrir: %s", qty, UnfulfillableReason),
	})
}

// drug entrada de catálogo de la señal; sin catálogo se asume no huérfano y sin cadena de frío.
func (p *Planner) drug(snap *Snapshot, sig entity.DemandSignal) entity.CatalogDrug {
	if d, ok := snap.Drug(sig.NDC); ok {
		return *d
	}
	return entity.CatalogDrug{NDC: sig.NDC, Name: sig.DrugName}
}

// listPrice precio base: marketplace con existencias, luego catálogo, luego el valor por defecto.
func (p *Planner) listPrice(snap *Snapshot, drug entity.CatalogDrug) (decimal.Decimal, string, int) {
	if q, ok := snap.Prices[drug.NDC]; ok && q.InStock && q.UnitPrice.IsPositive() {
		supplier := q.Supplier
		if supplier == "" {
			supplier = p.cfg.DefaultSupplier
		}
		return q.UnitPrice, supplier, q.LeadTimeDays
	}
	if drug.UnitPrice.IsPositive() {
		return drug.UnitPrice, p.cfg.DefaultSupplier, 0
	}
	return p.cfg.DefaultUnitPrice, p.cfg.DefaultSupplier, 0
}

func (p *Planner) channelPrice(list decimal.Decimal, ch entity.Channel) decimal.Decimal {
	one := decimal.NewFromInt(1)
	switch ch {
	case entity.ChannelGPO:
		return list.Mul(one.Sub(p.cfg.GPODiscount)).Round(2)
	case entity.Channel340B:
		return list.Mul(one.Sub(p.cfg.Discount340B)).Round(2)
	default:
		return list
	}
}

func (p *Planner) procurementCandidates(
	snap *Snapshot,
	costs *logistics.CostModel,
	sig entity.DemandSignal,
	target *entity.Site,
	drug entity.CatalogDrug,
	qty int64,
) ([]*ProcurementCandidate, []entity.Rejection) {
	list, supplier, lead := p.listPrice(snap, drug)
	quote := costs.QuoteProcurement(sig.Urgency, lead)

	var out []*ProcurementCandidate
	var rejected []entity.Rejection
	for _, ch := range channels {
		d, trace := p.gate.ChannelEligible(regulatory.ChannelQuery{
			Site: target, Channel: ch, Orphan: drug.Orphan, Setting: p.cfg.PatientSetting,
		})
		if !d.Allowed {
			rejected = append(rejected, entity.Rejection{
				SiteID: sig.SiteID, NDC: sig.NDC, Kind: entity.ProposalProcurement,
				Channel: ch, Reason: d.Reason, Trace: trace,
			})
			continue
		}
		out = append(out, &ProcurementCandidate{
			Target:    target,
			Channel:   ch,
			Supplier:  supplier,
			UnitPrice: p.channelPrice(list, ch),
			Quantity:  qty,
			Quote:     quote,
			Trace:     trace,
		})
	}
	return out, rejected
}

func (p *Planner) transferCandidates(
	snap *Snapshot,
	costs *logistics.CostModel,
	ledger *SurplusLedger,
	sig entity.DemandSignal,
	target *entity.Site,
	drug entity.CatalogDrug,
) ([]*TransferCandidate, []entity.Rejection, []entity.Diagnostic) {
	var out []*TransferCandidate
	var rejected []entity.Rejection
	var diags []entity.Diagnostic

	for _, rec := range snap.RecordsFor(sig.NDC) {
		if rec.SiteID == sig.SiteID {
			continue
		}
		status := rec.Status()
		if status != entity.StockWellStocked && status != entity.StockOverstocked {
			continue
		}
		available := ledger.Available(rec.SiteID, rec.NDC)
		if available < 1 {
			continue
		}
		source, ok := snap.Site(rec.SiteID)
		if !ok {
			continue
		}

		d, trace := p.gate.Transfer(regulatory.RouteQuery{Source: source, Target: target, Urgency: sig.Urgency})
		if !d.Allowed {
			rejected = append(rejected, entity.Rejection{
				SiteID: sig.SiteID, NDC: sig.NDC, Kind: entity.ProposalTransfer,
				SourceSiteID: source.ID, Reason: d.Reason, Trace: trace,
			})
			continue
		}

		qty := min(sig.Quantity, available)
		quote, err := costs.QuoteTransfer(logistics.TransferRequest{
			Source: source, Target: target, ColdChain: drug.ColdChain, Quantity: qty, Urgency: sig.Urgency,
		})
		if err != nil {
			diags = append(diags, inputError(sig.SiteID, sig.NDC, err.Error()))
			continue
		}

		kind := entity.TransferNetwork
		if source.SharesControlWith(target) {
			kind = entity.TransferInternal
		}
		c := &TransferCandidate{
			Source:       source,
			Target:       target,
			Record:       rec,
			TransferKind: kind,
			DrugName:     sig.DrugName,
			Quantity:     qty,
			Urgency:      sig.Urgency,
			Quote:        quote,
			Trace:        trace,
		}
		c.Savings = p.savings(snap, costs, sig, target, drug, qty, c.TotalCost())
		out = append(out, c)
	}
	return out, rejected, diags
}

// savings diferencia contra la compra elegible más barata de la misma cantidad.
func (p *Planner) savings(
	snap *Snapshot,
	costs *logistics.CostModel,
	sig entity.DemandSignal,
	target *entity.Site,
	drug entity.CatalogDrug,
	qty int64,
	transferCost decimal.Decimal,
) decimal.Decimal {
	procs, _ := p.procurementCandidates(snap, costs, sig, target, drug, qty)
	if len(procs) == 0 {
		return decimal.Zero
	}
	cheapest := procs[0].TotalCost()
	for _, c := range procs[1:] {
		if c.TotalCost().LessThan(cheapest) {
			cheapest = c.TotalCost()
		}
	}
	return cheapest.Sub(transferCost)
}
