package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/application/planning"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// RunPassRequest body de POST /api/planning/passes.
type RunPassRequest struct {
	PatientSetting string `json:"patient_setting"` // inpatient | outpatient; vacío = configurado
}

// CostDTO desglose de costos de una propuesta.
type CostDTO struct {
	DistanceKm    float64         `json:"distance_km"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TransportCost decimal.Decimal `json:"transport_cost"`
	ItemCost      decimal.Decimal `json:"item_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Savings       decimal.Decimal `json:"savings"`
}

// ProposalDTO propuesta expuesta a la capa de aprobación.
type ProposalDTO struct {
	ID              string              `json:"id"`
	Kind            string              `json:"kind"`
	TransferKind    string              `json:"transfer_kind,omitempty"`
	NDC             string              `json:"ndc"`
	DrugName        string              `json:"drug_name"`
	Quantity        int64               `json:"quantity"`
	SourceSiteID    string              `json:"source_site_id,omitempty"`
	TargetSiteID    string              `json:"target_site_id"`
	Channel         string              `json:"channel,omitempty"`
	Supplier        string              `json:"supplier,omitempty"`
	TransportMethod string              `json:"transport_method,omitempty"`
	Urgency         string              `json:"urgency"`
	Cost            CostDTO             `json:"cost"`
	EtaMinutes      float64             `json:"eta_minutes"`
	Score           float64             `json:"score"`
	Reasons         []string            `json:"reasons"`
	Trace           []entity.TraceEntry `json:"trace"`
	Split           bool                `json:"split"`
}

// UnfulfilledDTO demanda sin candidato conforme.
type UnfulfilledDTO struct {
	SiteID   string `json:"site_id"`
	NDC      string `json:"ndc"`
	DrugName string `json:"drug_name"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

// RejectionDTO candidato descartado por la compuerta regulatoria.
type RejectionDTO struct {
	SiteID       string              `json:"site_id"`
	NDC          string              `json:"ndc"`
	Kind         string              `json:"kind"`
	SourceSiteID string              `json:"source_site_id,omitempty"`
	Channel      string              `json:"channel,omitempty"`
	Reason       string              `json:"reason"`
	Trace        []entity.TraceEntry `json:"trace"`
}

// DiagnosticDTO mensaje no fatal de la pasada.
type DiagnosticDTO struct {
	Kind    string `json:"kind"`
	SiteID  string `json:"site_id,omitempty"`
	NDC     string `json:"ndc,omitempty"`
	Message string `json:"message"`
}

// PlanningRunDTO respuesta completa de una pasada.
type PlanningRunDTO struct {
	ID          string           `json:"id"`
	NetworkID   string           `json:"network_id"`
	RequestedBy string           `json:"requested_by,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Proposals   []ProposalDTO    `json:"proposals"`
	Unfulfilled []UnfulfilledDTO `json:"unfulfilled"`
	Rejections  []RejectionDTO   `json:"rejections"`
	Diagnostics []DiagnosticDTO  `json:"diagnostics"`
}

// PlanningRunSummaryDTO fila del listado de pasadas.
type PlanningRunSummaryDTO struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Proposals   int       `json:"proposals"`
	Unfulfilled int       `json:"unfulfilled"`
	Diagnostics int       `json:"diagnostics"`
}

// ForecastDTO respuesta de GET /api/forecasts.
type ForecastDTO struct {
	NDC          string          `json:"ndc"`
	SiteID       string          `json:"site_id"`
	Period       string          `json:"period"`
	BaseMean     float64         `json:"base_mean"`
	Mean         float64         `json:"mean"`
	Variance     float64         `json:"variance"`
	Lower        float64         `json:"lower"`
	Upper        float64         `json:"upper"`
	Distribution string          `json:"distribution"`
	Treatments   int             `json:"treatments"`
	ServiceLevel float64         `json:"service_level"`
	LeadTimeDays float64         `json:"lead_time_days"`
	SafetyStock  int64           `json:"safety_stock"`
	Diagnostics  []DiagnosticDTO `json:"diagnostics"`
}

// NewPlanningRunDTO convierte la pasada del dominio a su forma JSON.
func NewPlanningRunDTO(run *entity.PlanningRun) PlanningRunDTO {
	out := PlanningRunDTO{
		ID:          run.ID,
		NetworkID:   run.NetworkID,
		RequestedBy: run.RequestedBy,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Proposals:   make([]ProposalDTO, 0, len(run.Proposals)),
		Unfulfilled: make([]UnfulfilledDTO, 0, len(run.Unfulfilled)),
		Rejections:  make([]RejectionDTO, 0, len(run.Rejections)),
		Diagnostics: newDiagnosticDTOs(run.Diagnostics),
	}
	for _, p := range run.Proposals {
		out.Proposals = append(out.Proposals, ProposalDTO{
			ID:              p.ID,
			Kind:            string(p.Kind),
			TransferKind:    string(p.TransferKind),
			NDC:             p.NDC,
			DrugName:        p.DrugName,
			Quantity:        p.Quantity,
			SourceSiteID:    p.SourceSiteID,
			TargetSiteID:    p.TargetSiteID,
			Channel:         string(p.Channel),
			Supplier:        p.Supplier,
			TransportMethod: string(p.TransportMethod),
			Urgency:         string(p.Signal.Urgency),
			Cost: CostDTO{
				DistanceKm:    p.Cost.DistanceKm,
				UnitPrice:     p.Cost.UnitPrice,
				TransportCost: p.Cost.TransportCost,
				ItemCost:      p.Cost.ItemCost,
				TotalCost:     p.Cost.TotalCost,
				Savings:       p.Cost.Savings,
			},
			EtaMinutes: p.EtaMinutes,
			Score:      p.Score,
			Reasons:    p.Reasons,
			Trace:      p.Trace,
			Split:      p.Split,
		})
	}
	for _, u := range run.Unfulfilled {
		out.Unfulfilled = append(out.Unfulfilled, UnfulfilledDTO{
			SiteID:   u.Signal.SiteID,
			NDC:      u.Signal.NDC,
			DrugName: u.Signal.DrugName,
			Quantity: u.Quantity,
			Reason:   u.Reason,
		})
	}
	for _, r := range run.Rejections {
		out.Rejections = append(out.Rejections, RejectionDTO{
			SiteID:       r.SiteID,
			NDC:          r.NDC,
			Kind:         string(r.Kind),
			SourceSiteID: r.SourceSiteID,
			Channel:      string(r.Channel),
			Reason:       r.Reason,
			Trace:        r.Trace,
		})
	}
	return out
}

// NewPlanningRunSummaryDTO fila resumida de una pasada.
func NewPlanningRunSummaryDTO(run *entity.PlanningRun) PlanningRunSummaryDTO {
	return PlanningRunSummaryDTO{
		ID:          run.ID,
		StartedAt:   run.StartedAt,
		Proposals:   len(run.Proposals),
		Unfulfilled: len(run.Unfulfilled),
		Diagnostics: len(run.Diagnostics),
	}
}

// NewForecastDTO convierte el resultado del pronóstico.
func NewForecastDTO(res *planning.ForecastResult) ForecastDTO {
	f := res.Forecast
	return ForecastDTO{
		NDC:          f.NDC,
		SiteID:       f.SiteID,
		Period:       f.Period,
		BaseMean:     f.BaseMean,
		Mean:         f.Mean,
		Variance:     f.Variance,
		Lower:        f.Lower,
		Upper:        f.Upper,
		Distribution: f.Distribution,
		Treatments:   f.Treatments,
		ServiceLevel: res.ServiceLevel,
		LeadTimeDays: res.LeadTimeDays,
		SafetyStock:  res.SafetyStock,
		Diagnostics:  newDiagnosticDTOs(f.Diagnostics),
	}
}

func newDiagnosticDTOs(ds []entity.Diagnostic) []DiagnosticDTO {
	out := make([]DiagnosticDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, DiagnosticDTO{Kind: string(d.Kind), SiteID: d.SiteID, NDC: d.NDC, Message: d.Message})
	}
	return out
}
