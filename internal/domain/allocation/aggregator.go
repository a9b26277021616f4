package allocation

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// Aggregation resultado del agregador: señales ordenadas más diagnósticos de entrada.
type Aggregation struct {
	Signals     []entity.DemandSignal
	Diagnostics []entity.Diagnostic
}

// Aggregate fusiona déficits de inventario y tratamientos agendados en una señal
// por (sitio, NDC). horizon <= 0 considera todos los tratamientos futuros.
// No tiene efectos secundarios: el snapshot no se modifica.
func Aggregate(snap *Snapshot, horizon time.Duration) Aggregation {
	var out Aggregation
	signals := map[string]*entity.DemandSignal{}
	inbound := inboundQuantities(snap.Transfers)

	get := func(siteID, ndc, drugName string) *entity.DemandSignal {
		k := key(siteID, ndc)
		if sig, ok := signals[k]; ok {
			return sig
		}
		sig := &entity.DemandSignal{SiteID: siteID, NDC: ndc, DrugName: drugName}
		if r, ok := snap.Record(siteID, ndc); ok {
			sig.OnHand = r.Quantity
			sig.MinLevel = r.MinLevel
		}
		sig.Urgency = entity.ClassifyUrgency(sig.OnHand, sig.MinLevel)
		signals[k] = sig
		return sig
	}

	// 1. Déficit de inventario neto de lo que ya viene en camino.
	for i := range snap.Inventory {
		r := &snap.Inventory[i]
		if _, ok := snap.Site(r.SiteID); !ok {
			out.Diagnostics = append(out.Diagnostics, inputError(r.SiteID, r.NDC,
				fmt.Sprintf("registro de inventario omitido: sitio %s no existe", r.SiteID)))
			continue
		}
		if !r.NeedsReplenishment() {
			continue
		}
		pipeline := inbound[key(r.SiteID, r.NDC)]
		required := r.Deficit() - pipeline
		if required <= 0 {
			continue
		}
		why := fmt.Sprintf("stock %s: %d/%d (max %d)", r.Status(), r.Quantity, r.MinLevel, r.MaxLevel)
		if pipeline > 0 {
			why += fmt.Sprintf(", %d en tránsito", pipeline)
		}
		get(r.SiteID, r.NDC, r.DrugName).AddDeficit(required, why)
	}

	// 2. Demanda de pacientes con tratamientos agendados.
	names := catalogByName(snap.Catalog)
	for i := range snap.Patients {
		p := &snap.Patients[i]
		if _, ok := snap.Site(p.AssignedSiteID); !ok {
			out.Diagnostics = append(out.Diagnostics, inputError(p.AssignedSiteID, "",
				fmt.Sprintf("paciente %s omitido: sitio asignado %q no existe", p.ID, p.AssignedSiteID)))
			continue
		}
		for j := range p.Schedule {
			t := &p.Schedule[j]
			if !pendingTreatment(t, snap.Now, horizon) {
				continue
			}
			drug := resolveDrug(snap, names, t)
			if drug == nil {
				continue
			}
			qty, err := entity.ParseDose(t.Dose)
			if err != nil {
				out.Diagnostics = append(out.Diagnostics, inputError(p.AssignedSiteID, drug.NDC,
					fmt.Sprintf("paciente %s, tratamiento %s: dosis %q: %v", p.ID, t.ID, t.Dose, err)))
				continue
			}
			why := fmt.Sprintf("paciente %s: %d u. el %s", p.ID, qty, t.Date.Format("2006-01-02"))
			get(p.AssignedSiteID, drug.NDC, drug.Name).AddForecast(qty, why)
		}
	}

	out.Signals = make([]entity.DemandSignal, 0, len(signals))
	for _, sig := range signals {
		out.Signals = append(out.Signals, *sig)
	}
	SortSignals(out.Signals)
	return out
}

// SortSignals orden de procesamiento: urgencia descendente, luego sitio y NDC.
func SortSignals(signals []entity.DemandSignal) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() > b.Urgency.Rank()
		}
		if a.SiteID != b.SiteID {
			return a.SiteID < b.SiteID
		}
		return a.NDC < b.NDC
	})
}

func inboundQuantities(transfers []entity.TransferRequest) map[string]int64 {
	out := map[string]int64{}
	for _, t := range transfers {
		if t.InPipeline() {
			out[key(t.TargetSiteID, t.NDC)] += t.Quantity
		}
	}
	return out
}

func pendingTreatment(t *entity.Treatment, now time.Time, horizon time.Duration) bool {
	if horizon > 0 {
		return t.Pending(now, horizon)
	}
	return t.Status == entity.TreatmentScheduled && t.Date.After(now)
}

func catalogByName(catalog []entity.CatalogDrug) map[string]*entity.CatalogDrug {
	fold := cases.Fold()
	out := make(map[string]*entity.CatalogDrug, len(catalog))
	for i := range catalog {
		out[fold.String(catalog[i].Name)] = &catalog[i]
	}
	return out
}

// resolveDrug busca el tratamiento en el catálogo por NDC o por nombre.
// Los medicamentos fuera del catálogo no generan demanda.
func resolveDrug(snap *Snapshot, names map[string]*entity.CatalogDrug, t *entity.Treatment) *entity.CatalogDrug {
	if t.NDC != "" {
		if d, ok := snap.Drug(t.NDC); ok {
			return d
		}
	}
	if t.DrugName == "" {
		return nil
	}
	return names[cases.Fold().String(t.DrugName)]
}

func inputError(siteID, ndc, msg string) entity.Diagnostic {
	return entity.Diagnostic{Kind: entity.DiagnosticInputError, SiteID: siteID, NDC: ndc, Message: msg}
}
