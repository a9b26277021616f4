package entity

import "time"

// TransferStatus estado de una solicitud de transferencia entre sitios.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferApproved  TransferStatus = "approved"
	TransferDenied    TransferStatus = "denied"
	TransferInTransit TransferStatus = "in_transit"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// TransferRequest solicitud de transferencia registrada en el almacén de inventario.
type TransferRequest struct {
	ID           string
	SourceSiteID string
	TargetSiteID string
	NDC          string
	Quantity     int64
	Status       TransferStatus
	RequestedAt  time.Time
}

// InPipeline indica si las unidades ya están comprometidas hacia el destino
// (pendiente, aprobada o en tránsito).
func (t *TransferRequest) InPipeline() bool {
	switch t.Status {
	case TransferPending, TransferApproved, TransferInTransit:
		return true
	}
	return false
}
