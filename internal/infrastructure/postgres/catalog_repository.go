package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var (
	_ repository.CatalogRepository = (*CatalogRepo)(nil)
	_ repository.CatalogWriter     = (*CatalogRepo)(nil)
)

// CatalogRepo catálogo de medicamentos; unit_price NUMERIC se lee como decimal.Decimal
// gracias al codec registrado en NewPool.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) List(ctx context.Context) ([]entity.CatalogDrug, error) {
	rows, err := r.q.Query(ctx, `SELECT ndc, name, unit_price, cold_chain, orphan FROM catalog_drugs ORDER BY ndc`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()
	var list []entity.CatalogDrug
	for rows.Next() {
		var d entity.CatalogDrug
		if err := rows.Scan(&d.NDC, &d.Name, &d.UnitPrice, &d.ColdChain, &d.Orphan); err != nil {
			return nil, fmt.Errorf("scan catalog drug: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Upsert registra o actualiza un medicamento del catálogo.
func (r *CatalogRepo) Upsert(ctx context.Context, d *entity.CatalogDrug) error {
	query := `
		INSERT INTO catalog_drugs (ndc, name, unit_price, cold_chain, orphan)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ndc) DO UPDATE SET
			name = EXCLUDED.name, unit_price = EXCLUDED.unit_price,
			cold_chain = EXCLUDED.cold_chain, orphan = EXCLUDED.orphan`
	if _, err := r.q.Exec(ctx, query, d.NDC, d.Name, d.UnitPrice, d.ColdChain, d.Orphan); err != nil {
		return wrapWrite("upsert catalog drug", err)
	}
	return nil
}
