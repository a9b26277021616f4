// Package planning orquesta las pasadas de planeación: lee la red a través de
// los puertos, consulta precios y rutas, ejecuta el planificador y guarda el resultado.
package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Suministros-api/internal/application/ports"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/forecast"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// Stores puertos de lectura de la red y el historial de pasadas.
type Stores struct {
	Sites     repository.SiteRepository
	Inventory repository.InventoryRecordRepository
	Transfers repository.TransferRequestRepository
	Patients  repository.PatientRepository
	Catalog   repository.CatalogRepository
	Runs      repository.PlanningRunRepository
}

// Options parámetros de la pasada. Los valores cero toman los de DefaultOptions.
type Options struct {
	Horizon       time.Duration // ventana de tratamientos agendados
	LookupTimeout time.Duration // por llamada externa
	Concurrency   int           // llamadas externas simultáneas
}

// DefaultOptions horizonte de 30 días, 2 s por consulta, 8 consultas a la vez.
func DefaultOptions() Options {
	return Options{
		Horizon:       forecast.DefaultHorizon,
		LookupTimeout: 2 * time.Second,
		Concurrency:   8,
	}
}

// PassRequest solicitud de una pasada.
type PassRequest struct {
	NetworkID      string
	RequestedBy    string
	PatientSetting entity.PatientSetting // vacío = el configurado en el planificador
	Now            time.Time             // cero = time.Now()
}

// PassUseCase ejecuta pasadas de planeación. Las pasadas concurrentes solo
// comparten el logger y el observador de métricas.
type PassUseCase struct {
	stores   Stores
	planner  *allocation.Planner
	pricing  ports.PricingLookup
	routing  ports.RouteLookup
	observer ports.PassObserver
	log      *logger.Logger
	opts     Options
}

// NewPassUseCase construye el caso de uso. pricing y routing pueden ser nil:
// se usan el precio de catálogo y la distancia haversine × tortuosidad.
func NewPassUseCase(
	stores Stores,
	planner *allocation.Planner,
	pricing ports.PricingLookup,
	routing ports.RouteLookup,
	observer ports.PassObserver,
	log *logger.Logger,
	opts Options,
) *PassUseCase {
	def := DefaultOptions()
	if opts.Horizon <= 0 {
		opts.Horizon = def.Horizon
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = def.LookupTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if planner == nil {
		planner = allocation.NewPlanner(nil, nil, allocation.DefaultScoringPolicy(), allocation.DefaultConfig())
	}
	if observer == nil {
		observer = ports.NopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PassUseCase{
		stores:   stores,
		planner:  planner,
		pricing:  pricing,
		routing:  routing,
		observer: observer,
		log:      log,
		opts:     opts,
	}
}

// Run ejecuta una pasada completa. Solo falla si no se puede armar el snapshot
// o guardar el resultado; los problemas de datos quedan como diagnósticos.
func (uc *PassUseCase) Run(ctx context.Context, req PassRequest) (*entity.PlanningRun, error) {
	started := time.Now()
	now := req.Now
	if now.IsZero() {
		now = started
	}

	snap, err := uc.loadSnapshot(ctx, req.NetworkID, now)
	if err != nil {
		return nil, err
	}

	agg := allocation.Aggregate(snap, uc.opts.Horizon)

	lk := uc.prefetch(ctx, snap, agg.Signals)
	snap = snap.WithLookups(lk.prices, lk.routes)

	res := uc.planner.WithPatientSetting(req.PatientSetting).Plan(snap, agg.Signals)

	run := &entity.PlanningRun{
		ID:          uuid.New().String(),
		NetworkID:   req.NetworkID,
		RequestedBy: req.RequestedBy,
		StartedAt:   started,
		Proposals:   res.Proposals,
		Unfulfilled: res.Unfulfilled,
		Rejections:  res.Rejections,
	}
	run.Diagnostics = make([]entity.Diagnostic, 0, len(agg.Diagnostics)+len(lk.diagnostics)+len(res.Diagnostics))
	run.Diagnostics = append(run.Diagnostics, agg.Diagnostics...)
	run.Diagnostics = append(run.Diagnostics, lk.diagnostics...)
	run.Diagnostics = append(run.Diagnostics, res.Diagnostics...)
	for i := range run.Proposals {
		run.Proposals[i].ID = uuid.New().String()
	}
	run.FinishedAt = time.Now()

	if err := uc.stores.Runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save planning run: %w", err)
	}

	uc.observer.ObservePass(run, run.FinishedAt.Sub(started))
	uc.logRun(run, len(agg.Signals))
	return run, nil
}

// Get devuelve una pasada guardada; domain.ErrNotFound si no existe o es de otra red.
func (uc *PassUseCase) Get(ctx context.Context, networkID, id string) (*entity.PlanningRun, error) {
	run, err := uc.stores.Runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if networkID != "" && run.NetworkID != networkID {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

// List pasadas recientes de la red.
func (uc *PassUseCase) List(ctx context.Context, networkID string, limit int) ([]entity.PlanningRun, error) {
	return uc.stores.Runs.ListByNetwork(ctx, networkID, limit)
}

func (uc *PassUseCase) loadSnapshot(ctx context.Context, networkID string, now time.Time) (*allocation.Snapshot, error) {
	sites, err := uc.stores.Sites.ListByNetwork(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("load sites: %w", err)
	}
	if len(sites) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	inventory, err := uc.stores.Inventory.ListByNetwork(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	transfers, err := uc.stores.Transfers.ListActive(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("load transfers: %w", err)
	}
	patients, err := uc.stores.Patients.ListByNetwork(ctx, networkID)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	catalog, err := uc.stores.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return allocation.NewSnapshot(networkID, now, sites, inventory, transfers, patients, catalog), nil
}

func (uc *PassUseCase) logRun(run *entity.PlanningRun, signals int) {
	for _, d := range run.Diagnostics {
		uc.log.Warn().
			Str("pass_id", run.ID).
			Str("kind", string(d.Kind)).
			Str("site_id", d.SiteID).
			Str("ndc", d.NDC).
			Str("reason", d.Message).
			Msg("planning diagnostic")
	}
	uc.log.Info().
		Str("pass_id", run.ID).
		Str("network_id", run.NetworkID).
		Int("signals", signals).
		Int("proposals", len(run.Proposals)).
		Int("unfulfilled", len(run.Unfulfilled)).
		Int("rejections", len(run.Rejections)).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("planning pass finished")
}
