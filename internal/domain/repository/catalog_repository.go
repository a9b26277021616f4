package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// CatalogRepository medicamentos seguidos por la red.
type CatalogRepository interface {
	List(ctx context.Context) ([]entity.CatalogDrug, error)
}
