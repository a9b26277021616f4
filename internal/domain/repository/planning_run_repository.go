package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// PlanningRunRepository historial de pasadas de planeación. Nunca toca inventario.
type PlanningRunRepository interface {
	Save(ctx context.Context, run *entity.PlanningRun) error
	// GetByID devuelve domain.ErrNotFound si la pasada no existe.
	GetByID(ctx context.Context, id string) (*entity.PlanningRun, error)
	ListByNetwork(ctx context.Context, networkID string, limit int) ([]entity.PlanningRun, error)
}
