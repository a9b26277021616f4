package planning

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/allocation"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/logistics"
	"github.com/jhoicas/Suministros-api/internal/domain/regulatory"
	"github.com/jhoicas/Suministros-api/pkg/config"
)

// NewPlannerFromConfig arma el planificador con la compuerta regulatoria por defecto,
// el modelo de costos y los descuentos configurados.
func NewPlannerFromConfig(cfg config.PlannerConfig) *allocation.Planner {
	costs := logistics.NewCostModel(cfg.Tortuosity, cfg.VendorDistanceKm)
	pc := allocation.DefaultConfig()
	if cfg.PatientSetting != "" {
		pc.PatientSetting = entity.PatientSetting(cfg.PatientSetting)
	}
	if cfg.GPODiscount > 0 {
		pc.GPODiscount = decimal.NewFromFloat(cfg.GPODiscount)
	}
	if cfg.Discount340B > 0 {
		pc.Discount340B = decimal.NewFromFloat(cfg.Discount340B)
	}
	if cfg.DefaultUnitPrice > 0 {
		pc.DefaultUnitPrice = decimal.NewFromFloat(cfg.DefaultUnitPrice)
	}
	return allocation.NewPlanner(regulatory.NewDefaultGate(), costs, allocation.DefaultScoringPolicy(), pc)
}

// OptionsFromConfig opciones de la pasada a partir de la configuración.
func OptionsFromConfig(planner config.PlannerConfig, market config.MarketplaceConfig) Options {
	return Options{
		Horizon:       time.Duration(planner.ForecastHorizonDays) * 24 * time.Hour,
		LookupTimeout: time.Duration(market.TimeoutMS) * time.Millisecond,
		Concurrency:   market.Concurrency,
	}
}
