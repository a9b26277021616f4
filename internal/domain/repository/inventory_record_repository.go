package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// InventoryRecordRepository puerto del Inventory Store. El motor solo lee:
// la mutación ocurre por check-in/check-out y transferencias completadas fuera del motor.
type InventoryRecordRepository interface {
	ListByNetwork(ctx context.Context, networkID string) ([]entity.InventoryRecord, error)
	ListBySite(ctx context.Context, siteID string) ([]entity.InventoryRecord, error)
}
