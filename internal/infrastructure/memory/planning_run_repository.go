package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.PlanningRunRepository = (*PlanningRunRepository)(nil)

// PlanningRunRepository historial de pasadas en memoria.
type PlanningRunRepository struct {
	mu   sync.RWMutex
	runs map[string]entity.PlanningRun
}

// NewPlanningRunRepository crea un historial vacío.
func NewPlanningRunRepository() *PlanningRunRepository {
	return &PlanningRunRepository{runs: map[string]entity.PlanningRun{}}
}

func (r *PlanningRunRepository) Save(_ context.Context, run *entity.PlanningRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *PlanningRunRepository) GetByID(_ context.Context, id string) (*entity.PlanningRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// ListByNetwork más recientes primero; limit <= 0 devuelve todas.
func (r *PlanningRunRepository) ListByNetwork(_ context.Context, networkID string, limit int) ([]entity.PlanningRun, error) {
	r.mu.RLock()
	out := make([]entity.PlanningRun, 0, len(r.runs))
	for _, run := range r.runs {
		if networkID == "" || run.NetworkID == networkID {
			out = append(out, run)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
