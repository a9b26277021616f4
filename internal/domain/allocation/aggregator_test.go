package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

func TestAggregate_DeficitNetOfPipeline(t *testing.T) {
	sites := []entity.Site{clinic("h1", 0), clinic("h2", 0.01)}
	records := []entity.InventoryRecord{
		record("h1", 4, 10, 50),  // crítico: déficit 46
		record("h2", 40, 10, 50), // bien abastecido: sin señal
	}
	transfers := []entity.TransferRequest{
		{ID: "tr1", TargetSiteID: "h1", NDC: ndcInsulinFree, Quantity: 6, Status: entity.TransferInTransit},
		{ID: "tr2", TargetSiteID: "h1", NDC: ndcInsulinFree, Quantity: 100, Status: entity.TransferCancelled},
	}
	snap := allocation.NewSnapshot("net-1", testNow, sites, records, transfers, nil, catalog())

	agg := allocation.Aggregate(snap, 0)

	require.Len(t, agg.Signals, 1)
	sig := agg.Signals[0]
	assert.Equal(t, "h1", sig.SiteID)
	assert.Equal(t, int64(40), sig.Quantity, "46 de déficit menos 6 en tránsito")
	assert.Equal(t, int64(40), sig.DeficitQty)
	assert.Equal(t, entity.UrgencyUrgent, sig.Urgency)
	assert.Equal(t, []entity.Provenance{entity.ProvenanceInventoryDeficit}, sig.Provenance)
	assert.Contains(t, sig.Justification, "6 en tránsito")
}

func TestAggregate_PipelineCoversDeficit(t *testing.T) {
	snap := allocation.NewSnapshot("net-1", testNow,
		[]entity.Site{clinic("h1", 0)},
		[]entity.InventoryRecord{record("h1", 5, 10, 20)},
		[]entity.TransferRequest{{TargetSiteID: "h1", NDC: ndcInsulinFree, Quantity: 15, Status: entity.TransferApproved}},
		nil, catalog())

	assert.Empty(t, allocation.Aggregate(snap, 0).Signals)
}

func TestAggregate_CombinesForecastAdditively(t *testing.T) {
	treat := func(id string, days int, dose string) entity.Treatment {
		return entity.Treatment{
			ID: id, Date: testNow.Add(time.Duration(days) * 24 * time.Hour),
			DrugName: "METFORMIN 500MG", Status: entity.TreatmentScheduled, Dose: dose,
		}
	}
	patients := []entity.Patient{
		{ID: "p1", AssignedSiteID: "h1", Schedule: []entity.Treatment{treat("a", 2, "10 tablets"), treat("b", -1, "99")}},
		{ID: "p2", AssignedSiteID: "h1", Schedule: []entity.Treatment{treat("c", 3, "5")}},
		{ID: "p3", AssignedSiteID: "h1", Schedule: []entity.Treatment{{ID: "d", Date: testNow.Add(48 * time.Hour), DrugName: "Unknown", Status: entity.TreatmentScheduled, Dose: "5"}}},
	}
	snap := snapshot([]entity.Site{clinic("h1", 0)}, []entity.InventoryRecord{record("h1", 8, 10, 20)}, patients...)

	agg := allocation.Aggregate(snap, 30*24*time.Hour)

	require.Len(t, agg.Signals, 1)
	sig := agg.Signals[0]
	assert.Equal(t, int64(12), sig.DeficitQty)
	assert.Equal(t, int64(15), sig.ForecastQty, "tratamientos pasados y fuera del catálogo no cuentan")
	assert.Equal(t, int64(27), sig.Quantity)
	assert.Equal(t, []entity.Provenance{entity.ProvenanceInventoryDeficit, entity.ProvenancePatientForecast}, sig.Provenance)
	assert.Contains(t, sig.Justification, "stock low")
	assert.Contains(t, sig.Justification, "paciente p1")
	assert.Contains(t, sig.Justification, "paciente p2")
}

func TestAggregate_InputErrorsAreSkipped(t *testing.T) {
	patients := []entity.Patient{
		{ID: "ghost", AssignedSiteID: "nowhere"},
		{ID: "p1", AssignedSiteID: "h1", Schedule: []entity.Treatment{{
			ID: "bad", Date: testNow.Add(24 * time.Hour), NDC: ndcInsulinFree,
			Status: entity.TreatmentScheduled, Dose: "a few",
		}}},
	}
	records := []entity.InventoryRecord{record("h1", 0, 10, 20), record("orphan-site", 0, 10, 20)}
	snap := snapshot([]entity.Site{clinic("h1", 0)}, records, patients...)

	agg := allocation.Aggregate(snap, 0)

	require.Len(t, agg.Signals, 1)
	assert.Equal(t, int64(20), agg.Signals[0].Quantity)
	require.Len(t, agg.Diagnostics, 3)
	for _, d := range agg.Diagnostics {
		assert.Equal(t, entity.DiagnosticInputError, d.Kind)
	}
}

func TestAggregate_OversizedDoseKeepsDeficit(t *testing.T) {
	patients := []entity.Patient{{ID: "p1", AssignedSiteID: "h1", Schedule: []entity.Treatment{{
		ID: "huge", Date: testNow.Add(24 * time.Hour), NDC: ndcInsulinFree,
		Status: entity.TreatmentScheduled, Dose: "99999999999999999999 units",
	}}}}
	snap := snapshot([]entity.Site{clinic("h1", 0)}, []entity.InventoryRecord{record("h1", 0, 10, 30)}, patients...)

	agg := allocation.Aggregate(snap, 0)

	require.Len(t, agg.Signals, 1)
	assert.Equal(t, int64(30), agg.Signals[0].Quantity)
	assert.Zero(t, agg.Signals[0].ForecastQty)
	require.Len(t, agg.Diagnostics, 1)
	assert.Equal(t, entity.DiagnosticInputError, agg.Diagnostics[0].Kind)
	assert.Contains(t, agg.Diagnostics[0].Message, "huge")

	res := planner().Plan(snap, agg.Signals)
	var covered int64
	for _, p := range res.Proposals {
		covered += p.Quantity
	}
	for _, u := range res.Unfulfilled {
		covered += u.Quantity
	}
	assert.Equal(t, int64(30), covered, "el déficit se propone o se reporta, nunca se pierde")
}

func TestAggregate_SortedByUrgencyThenSite(t *testing.T) {
	sites := []entity.Site{clinic("a", 0), clinic("b", 0), clinic("c", 0)}
	records := []entity.InventoryRecord{
		record("a", 8, 10, 20), // routine (low)
		record("b", 0, 10, 20), // emergency
		record("c", 3, 10, 20), // urgent
	}
	agg := allocation.Aggregate(snapshot(sites, records), 0)

	require.Len(t, agg.Signals, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{agg.Signals[0].SiteID, agg.Signals[1].SiteID, agg.Signals[2].SiteID})
}

func TestAggregate_DoesNotMutateSnapshot(t *testing.T) {
	snap := snapshot([]entity.Site{clinic("h1", 0)}, []entity.InventoryRecord{record("h1", 0, 10, 20)})
	before := append([]entity.InventoryRecord(nil), snap.Inventory...)

	allocation.Aggregate(snap, 0)
	planner().Plan(snap, allocation.Aggregate(snap, 0).Signals)

	assert.Equal(t, before, snap.Inventory)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de excedentes
// ──────────────────────────────────────────────────────────────────────────────

func TestSurplusLedger(t *testing.T) {
	l := allocation.NewSurplusLedger([]entity.InventoryRecord{
		record("well", 60, 10, 100),
		record("over", 60, 10, 50),
		record("low", 5, 10, 50),
	})

	assert.Equal(t, int64(50), l.Available("well", ndcInsulinFree))
	assert.Equal(t, int64(10), l.Available("over", ndcInsulinFree))
	assert.Zero(t, l.Available("low", ndcInsulinFree))

	require.NoError(t, l.Consume("well", ndcInsulinFree, 30))
	assert.Equal(t, int64(20), l.Available("well", ndcInsulinFree))

	err := l.Consume("well", ndcInsulinFree, 21)
	assert.ErrorIs(t, err, domain.ErrSurplusExhausted)
	assert.Equal(t, int64(20), l.Available("well", ndcInsulinFree), "un consumo fallido no descuenta")

	assert.ErrorIs(t, l.Consume("well", ndcInsulinFree, 0), domain.ErrInvalidInput)
}
