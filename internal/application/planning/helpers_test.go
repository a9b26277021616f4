package planning_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
	"github.com/jhoicas/Suministros-api/internal/domain/regulatory"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testNDC = "0002-8215"

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func site(id string, latOffset float64) entity.Site {
	return entity.Site{
		ID:           id,
		NetworkID:    "net-1",
		Name:         "Sitio " + id,
		Kind:         "hospital",
		Coordinates:  entity.Coordinates{Lat: 4.60 + latOffset, Lng: -74.08},
		ClassOfTrade: entity.ClassOfTradeAcute,
		Avatar:       entity.AvatarClinic,
		Regulatory: entity.RegulatoryProfile{
			DSCSACompliant: true,
			LicenseType:    entity.LicensePharmacy,
		},
	}
}

func record(siteID string, qty, minLevel, maxLevel int64) entity.InventoryRecord {
	return entity.InventoryRecord{
		SiteID:   siteID,
		NDC:      testNDC,
		DrugName: "Metformin 500mg",
		Quantity: qty,
		MinLevel: minLevel,
		MaxLevel: maxLevel,
	}
}

// network red de dos sitios: "a" sin existencias y "b" con 50 unidades de excedente a ~1 km.
func network() *memory.Network {
	n := memory.NewNetwork()
	n.LoadSites(site("a", 0), site("b", 0.01))
	n.LoadInventory(record("a", 0, 10, 40), record("b", 60, 10, 100))
	n.LoadCatalog(entity.CatalogDrug{NDC: testNDC, Name: "Metformin 500mg", UnitPrice: decimal.NewFromInt(40)})
	return n
}

func stores(n *memory.Network, runs *memory.PlanningRunRepository) planning.Stores {
	return planning.Stores{
		Sites:     n.Sites(),
		Inventory: n.Inventory(),
		Transfers: n.Transfers(),
		Patients:  n.Patients(),
		Catalog:   n.Catalog(),
		Runs:      runs,
	}
}

func testPlanner() *allocation.Planner {
	costs := logistics.NewCostModel(logistics.DefaultTortuosity, logistics.DefaultVendorDistanceKm)
	costs.Jitter = logistics.NoJitter{}
	return allocation.NewPlanner(regulatory.NewDefaultGate(), costs, allocation.DefaultScoringPolicy(), allocation.DefaultConfig())
}

func newPassUseCase(s planning.Stores, pricing ports.PricingLookup, routing ports.RouteLookup, obs ports.PassObserver) *planning.PassUseCase {
	return planning.NewPassUseCase(s, testPlanner(), pricing, routing, obs, logger.Nop(), planning.Options{LookupTimeout: 200 * time.Millisecond})
}

// ── Dobles de puertos ─────────────────────────────────────────────────────────

type fakePricing struct {
	quote *ports.PriceQuote
	err   error
}

func (f fakePricing) Quote(_ context.Context, ndc string) (*ports.PriceQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := *f.quote
	q.NDC = ndc
	return &q, nil
}

type fakeRouting struct {
	km  float64
	err error
}

func (f fakeRouting) RoadDistanceKm(context.Context, entity.Coordinates, entity.Coordinates) (float64, error) {
	return f.km, f.err
}

// blockingRouting espera hasta que venza el contexto.
type blockingRouting struct{}

func (blockingRouting) RoadDistanceKm(ctx context.Context, _, _ entity.Coordinates) (float64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

type recordingObserver struct {
	mu        sync.Mutex
	passes    int
	fallbacks map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{fallbacks: map[string]int{}}
}

func (o *recordingObserver) ObservePass(*entity.PlanningRun, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes++
}

func (o *recordingObserver) ObserveLookupFallback(lookup string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks[lookup]++
}

type failingSites struct{}

var errStoreDown = errors.New("store down")

func (failingSites) ListByNetwork(context.Context, string) ([]entity.Site, error) {
	return nil, errStoreDown
}

func (failingSites) GetByID(context.Context, string) (*entity.Site, error) {
	return nil, errStoreDown
}
