package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)
	_ repository.InventoryRecordWriter     = (*InventoryRecordRepo)(nil)
)

// InventoryRecordRepo lectura del inventario por sitio y NDC.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// ListByNetwork incluye registros de sitios no registrados cargados por la misma
// red: el agregador los reporta como error de entrada en vez de perderlos.
func (r *InventoryRecordRepo) ListByNetwork(ctx context.Context, networkID string) ([]entity.InventoryRecord, error) {
	query := `
		SELECT ir.network_id, ir.site_id, ir.ndc, ir.drug_name, ir.quantity, ir.min_level, ir.max_level, ir.updated_at
		FROM inventory_records ir
		LEFT JOIN sites s ON s.id = ir.site_id
		WHERE COALESCE(s.network_id, ir.network_id) = $1
		ORDER BY ir.ndc, ir.site_id`
	rows, err := r.q.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	return collectRecords(rows)
}

func (r *InventoryRecordRepo) ListBySite(ctx context.Context, siteID string) ([]entity.InventoryRecord, error) {
	query := `
		SELECT network_id, site_id, ndc, drug_name, quantity, min_level, max_level, updated_at
		FROM inventory_records
		WHERE site_id = $1
		ORDER BY ndc`
	rows, err := r.q.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("list inventory records by site: %w", err)
	}
	return collectRecords(rows)
}

// Upsert registra existencias (check-in/check-out externos y carga inicial).
func (r *InventoryRecordRepo) Upsert(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (network_id, site_id, ndc, drug_name, quantity, min_level, max_level, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (site_id, ndc) DO UPDATE SET
			network_id = EXCLUDED.network_id, drug_name = EXCLUDED.drug_name, quantity = EXCLUDED.quantity,
			min_level = EXCLUDED.min_level, max_level = EXCLUDED.max_level, updated_at = now()`
	_, err := r.q.Exec(ctx, query, rec.NetworkID, rec.SiteID, rec.NDC, rec.DrugName, rec.Quantity, rec.MinLevel, rec.MaxLevel)
	if err != nil {
		return wrapWrite("upsert inventory record", err)
	}
	return nil
}

func collectRecords(rows pgx.Rows) ([]entity.InventoryRecord, error) {
	defer rows.Close()
	var list []entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.NetworkID, &rec.SiteID, &rec.NDC, &rec.DrugName, &rec.Quantity, &rec.MinLevel, &rec.MaxLevel, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
