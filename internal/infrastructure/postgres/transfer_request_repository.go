package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.TransferRequestRepository = (*TransferRequestRepo)(nil)
	_ repository.TransferRequestWriter     = (*TransferRequestRepo)(nil)
)

// TransferRequestRepo solicitudes de transferencia registradas en el Inventory Store.
type TransferRequestRepo struct {
	q Querier
}

// NewTransferRequestRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTransferRequestRepository(q Querier) *TransferRequestRepo {
	return &TransferRequestRepo{q: q}
}

func (r *TransferRequestRepo) ListActive(ctx context.Context, networkID string) ([]entity.TransferRequest, error) {
	query := `
		SELECT tr.id, tr.source_site_id, tr.target_site_id, tr.ndc, tr.quantity, tr.status, tr.requested_at
		FROM transfer_requests tr
		JOIN sites s ON s.id = tr.target_site_id
		WHERE s.network_id = $1 AND tr.status = ANY($2)
		ORDER BY tr.requested_at, tr.id`
	active := []string{
		string(entity.TransferPending),
		string(entity.TransferApproved),
		string(entity.TransferInTransit),
	}
	rows, err := r.q.Query(ctx, query, networkID, active)
	if err != nil {
		return nil, fmt.Errorf("list active transfers: %w", err)
	}
	defer rows.Close()
	var list []entity.TransferRequest
	for rows.Next() {
		var t entity.TransferRequest
		var status string
		if err := rows.Scan(&t.ID, &t.SourceSiteID, &t.TargetSiteID, &t.NDC, &t.Quantity, &status, &t.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan transfer request: %w", err)
		}
		t.Status = entity.TransferStatus(status)
		list = append(list, t)
	}
	return list, rows.Err()
}

// Upsert registra o actualiza una solicitud (importación de red).
func (r *TransferRequestRepo) Upsert(ctx context.Context, t *entity.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (id, source_site_id, target_site_id, ndc, quantity, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		ON CONFLICT (id) DO UPDATE SET
			source_site_id = EXCLUDED.source_site_id, target_site_id = EXCLUDED.target_site_id,
			ndc = EXCLUDED.ndc, quantity = EXCLUDED.quantity, status = EXCLUDED.status`
	var requestedAt *time.Time
	if !t.RequestedAt.IsZero() {
		requestedAt = &t.RequestedAt
	}
	_, err := r.q.Exec(ctx, query, t.ID, t.SourceSiteID, t.TargetSiteID, t.NDC, t.Quantity, string(t.Status), requestedAt)
	if err != nil {
		return wrapWrite("upsert transfer request", err)
	}
	return nil
}
