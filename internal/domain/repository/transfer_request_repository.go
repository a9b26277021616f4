package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// TransferRequestRepository solicitudes de transferencia en curso.
type TransferRequestRepository interface {
	// ListActive devuelve las solicitudes pending, approved o in_transit hacia sitios de la red.
	ListActive(ctx context.Context, networkID string) ([]entity.TransferRequest, error)
}
