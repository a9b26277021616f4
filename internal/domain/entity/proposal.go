package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalKind tipo de propuesta de abastecimiento.
type ProposalKind string

const (
	ProposalTransfer    ProposalKind = "transfer"
	ProposalProcurement ProposalKind = "procurement"
)

// TransferKind subtipo de transferencia.
type TransferKind string

const (
	TransferNetwork  TransferKind = "network"  // entre entidades distintas
	TransferInternal TransferKind = "internal" // misma entidad controladora
)

// Channel canal de compra.
type Channel string

const (
	ChannelWAC  Channel = "WAC"
	ChannelGPO  Channel = "GPO"
	Channel340B Channel = "340B"
)

// PatientSetting ámbito de uso del medicamento (afecta la prohibición GPO).
type PatientSetting string

const (
	SettingInpatient  PatientSetting = "inpatient"
	SettingOutpatient PatientSetting = "outpatient"
)

// TransportMethod medio de transporte de una transferencia.
type TransportMethod string

const (
	TransportDrone           TransportMethod = "drone"
	TransportBike            TransportMethod = "courier_bike"
	TransportCar             TransportMethod = "courier_car"
	TransportRefrigeratedVan TransportMethod = "van_refrigerated"
	TransportFreight         TransportMethod = "freight"
	TransportVendor          TransportMethod = "vendor_shipment"
)

// RuleKind familia de la regla regulatoria que produjo una entrada de traza.
type RuleKind string

const (
	RuleKindChannel   RuleKind = "channel"
	RuleKindTransfer  RuleKind = "transfer"
	RuleKindOwnership RuleKind = "ownership"
)

// TraceEntry resultado individual de una regla regulatoria (auditoría).
type TraceEntry struct {
	Rule    string   `json:"rule"`
	Kind    RuleKind `json:"kind"`
	Allowed bool     `json:"allowed"`
	Reason  string   `json:"reason"`
}

// CostBreakdown desglose de costos de una propuesta.
type CostBreakdown struct {
	DistanceKm    float64
	UnitPrice     decimal.Decimal
	TransportCost decimal.Decimal
	ItemCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Savings       decimal.Decimal // frente a la compra elegible más barata
}

// Proposal propuesta seleccionada para una DemandSignal. Es consultiva:
// la aprobación y la mutación de inventario ocurren fuera del motor.
type Proposal struct {
	ID              string
	Kind            ProposalKind
	TransferKind    TransferKind
	Signal          DemandSignal
	NDC             string
	DrugName        string
	Quantity        int64
	SourceSiteID    string
	TargetSiteID    string
	Channel         Channel
	Supplier        string
	TransportMethod TransportMethod
	Cost            CostBreakdown
	EtaMinutes      float64
	Trace           []TraceEntry
	Score           float64
	Reasons         []string
	Split           bool // parte de una necesidad dividida transferencia + compra
}

// UnfulfilledDemand demanda sin candidato conforme (se reporta, no es un error).
type UnfulfilledDemand struct {
	Signal   DemandSignal
	Quantity int64
	Reason   string
}

// Rejection candidato descartado por la compuerta regulatoria (auditoría).
type Rejection struct {
	SiteID       string
	NDC          string
	Kind         ProposalKind
	SourceSiteID string
	Channel      Channel
	Reason       string
	Trace        []TraceEntry
}

// DiagnosticKind clasificación de los mensajes de diagnóstico de una pasada.
type DiagnosticKind string

const (
	DiagnosticInputError     DiagnosticKind = "input_error"
	DiagnosticUnfulfillable  DiagnosticKind = "unfulfillable"
	DiagnosticLookupFallback DiagnosticKind = "lookup_fallback"
)

// Diagnostic mensaje no fatal producido durante una pasada.
type Diagnostic struct {
	Kind    DiagnosticKind
	SiteID  string
	NDC     string
	Message string
}

// PlanningRun resultado persistido de una pasada de planeación.
type PlanningRun struct {
	ID          string
	NetworkID   string
	RequestedBy string
	StartedAt   time.Time
	FinishedAt  time.Time
	Proposals   []Proposal
	Unfulfilled []UnfulfilledDemand
	Rejections  []Rejection
	Diagnostics []Diagnostic
}
