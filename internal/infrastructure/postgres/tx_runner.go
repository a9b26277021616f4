package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Suministros-api/internal/application/importer"
)

var _ importer.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunImport inicia una transacción, ejecuta fn con escritores atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunImport(ctx context.Context, fn func(w importer.Writers) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w := importer.Writers{
		Sites:     NewSiteRepository(tx),
		Inventory: NewInventoryRecordRepository(tx),
		Transfers: NewTransferRequestRepository(tx),
		Patients:  NewPatientRepository(tx),
		Catalog:   NewCatalogRepository(tx),
	}
	if err := fn(w); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
