package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.PlanningRunRepository = (*PlanningRunRepo)(nil)

// PlanningRunRepo historial de pasadas. Propuestas, demanda sin cubrir,
// rechazos y diagnósticos se guardan como JSONB.
type PlanningRunRepo struct {
	q Querier
}

// NewPlanningRunRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPlanningRunRepository(q Querier) *PlanningRunRepo {
	return &PlanningRunRepo{q: q}
}

func (r *PlanningRunRepo) Save(ctx context.Context, run *entity.PlanningRun) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	payload, err := encodeRun(run)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO planning_runs (id, network_id, requested_by, started_at, finished_at,
			proposals, unfulfilled, rejections, diagnostics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at, proposals = EXCLUDED.proposals,
			unfulfilled = EXCLUDED.unfulfilled, rejections = EXCLUDED.rejections,
			diagnostics = EXCLUDED.diagnostics`
	_, err = r.q.Exec(ctx, query, run.ID, run.NetworkID, run.RequestedBy, run.StartedAt, run.FinishedAt,
		payload[0], payload[1], payload[2], payload[3])
	if err != nil {
		return fmt.Errorf("save planning run: %w", err)
	}
	return nil
}

const runColumns = `id, network_id, requested_by, started_at, finished_at, proposals, unfulfilled, rejections, diagnostics`

func (r *PlanningRunRepo) GetByID(ctx context.Context, id string) (*entity.PlanningRun, error) {
	run, err := scanRun(r.q.QueryRow(ctx, `SELECT `+runColumns+` FROM planning_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get planning run: %w", err)
	}
	return run, nil
}

func (r *PlanningRunRepo) ListByNetwork(ctx context.Context, networkID string, limit int) ([]entity.PlanningRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM planning_runs WHERE network_id = $1 ORDER BY started_at DESC, id LIMIT $2`
	rows, err := r.q.Query(ctx, query, networkID, limit)
	if err != nil {
		return nil, fmt.Errorf("list planning runs: %w", err)
	}
	defer rows.Close()
	var list []entity.PlanningRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan planning run: %w", err)
		}
		list = append(list, *run)
	}
	return list, rows.Err()
}

func encodeRun(run *entity.PlanningRun) ([4][]byte, error) {
	var out [4][]byte
	parts := []any{
		nonNil(run.Proposals),
		nonNil(run.Unfulfilled),
		nonNil(run.Rejections),
		nonNil(run.Diagnostics),
	}
	for i, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			return out, fmt.Errorf("encode planning run: %w", err)
		}
		out[i] = b
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanRun(row pgx.Row) (*entity.PlanningRun, error) {
	var run entity.PlanningRun
	var proposals, unfulfilled, rejections, diagnostics []byte
	if err := row.Scan(&run.ID, &run.NetworkID, &run.RequestedBy, &run.StartedAt, &run.FinishedAt,
		&proposals, &unfulfilled, &rejections, &diagnostics); err != nil {
		return nil, err
	}
	for _, part := range []struct {
		raw []byte
		dst any
	}{
		{proposals, &run.Proposals},
		{unfulfilled, &run.Unfulfilled},
		{rejections, &run.Rejections},
		{diagnostics, &run.Diagnostics},
	} {
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("decode planning run: %w", err)
		}
	}
	return &run, nil
}
