package importer

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// Writers repositorios de escritura atados a una misma transacción.
type Writers struct {
	Sites     repository.SiteWriter
	Inventory repository.InventoryRecordWriter
	Transfers repository.TransferRequestWriter
	Patients  repository.PatientWriter
	Catalog   repository.CatalogWriter
}

// TxRunner ejecuta fn dentro de una transacción, pasando escritores atados a ella.
// Si fn falla no queda nada escrito.
type TxRunner interface {
	RunImport(ctx context.Context, fn func(w Writers) error) error
}
