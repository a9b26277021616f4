package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// Puertos de escritura usados solo por la importación de red. El motor de
// planeación nunca escribe en el Inventory Store.

type SiteWriter interface {
	Upsert(ctx context.Context, s *entity.Site) error
}

type InventoryRecordWriter interface {
	Upsert(ctx context.Context, rec *entity.InventoryRecord) error
}

type TransferRequestWriter interface {
	Upsert(ctx context.Context, t *entity.TransferRequest) error
}

// PatientWriter reemplaza el calendario completo del paciente.
type PatientWriter interface {
	Upsert(ctx context.Context, p *entity.Patient) error
}

type CatalogWriter interface {
	Upsert(ctx context.Context, d *entity.CatalogDrug) error
}
