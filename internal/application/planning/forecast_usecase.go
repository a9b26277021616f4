package planning

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/forecast"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// ForecastRequest pronóstico de un medicamento en un sitio.
type ForecastRequest struct {
	NetworkID        string
	SiteID           string
	NDC              string
	Seasonality      float64 // 0 = 1.0
	Acuity           float64 // 0 = 1.0
	ServiceLevel     float64 // 0 = 0.95
	LeadTimeDays     float64 // 0 = 2
	LeadTimeVariance float64
	Now              time.Time
}

// ForecastResult pronóstico y stock de seguridad derivado.
type ForecastResult struct {
	Forecast     forecast.Forecast
	SafetyStock  int64
	ServiceLevel float64
	LeadTimeDays float64
}

// ForecastUseCase expone el pronosticador sobre los pacientes de la red.
type ForecastUseCase struct {
	sites    repository.SiteRepository
	patients repository.PatientRepository
	catalog  repository.CatalogRepository
	horizon  time.Duration
}

// NewForecastUseCase construye el caso de uso; horizon <= 0 usa 30 días.
func NewForecastUseCase(
	sites repository.SiteRepository,
	patients repository.PatientRepository,
	catalog repository.CatalogRepository,
	horizon time.Duration,
) *ForecastUseCase {
	if horizon <= 0 {
		horizon = forecast.DefaultHorizon
	}
	return &ForecastUseCase{sites: sites, patients: patients, catalog: catalog, horizon: horizon}
}

// Forecast calcula el pronóstico del periodo que empieza en req.Now.
func (uc *ForecastUseCase) Forecast(ctx context.Context, req ForecastRequest) (*ForecastResult, error) {
	if req.SiteID == "" || req.NDC == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, v := range []float64{req.Seasonality, req.Acuity, req.ServiceLevel, req.LeadTimeDays, req.LeadTimeVariance} {
		if !finiteNonNegative(v) {
			return nil, fmt.Errorf("%w: los factores deben ser números finitos no negativos", domain.ErrInvalidInput)
		}
	}
	if req.ServiceLevel >= 1 {
		return nil, fmt.Errorf("%w: service_level debe ser menor que 1", domain.ErrInvalidInput)
	}
	site, err := uc.sites.GetByID(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if req.NetworkID != "" && site.NetworkID != req.NetworkID {
		return nil, domain.ErrNotFound
	}

	catalog, err := uc.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	drugName := ""
	for _, d := range catalog {
		if d.NDC == req.NDC {
			drugName = d.Name
			break
		}
	}

	patients, err := uc.patients.ListByNetwork(ctx, site.NetworkID)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	f := forecast.Generate(forecast.Request{
		NDC:         req.NDC,
		DrugName:    drugName,
		SiteID:      req.SiteID,
		Period:      now.Format("2006-01"),
		Now:         now,
		Horizon:     uc.horizon,
		Patients:    patients,
		Seasonality: req.Seasonality,
		Acuity:      req.Acuity,
	})

	level := req.ServiceLevel
	if level == 0 {
		level = 0.95
	}
	lead := req.LeadTimeDays
	if lead == 0 {
		lead = 2
	}
	return &ForecastResult{
		Forecast:     f,
		SafetyStock:  forecast.SafetyStock(f, lead, req.LeadTimeVariance, level),
		ServiceLevel: level,
		LeadTimeDays: lead,
	}, nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
