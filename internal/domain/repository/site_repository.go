package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// SiteRepository puerto de lectura de la configuración de red (DIP).
type SiteRepository interface {
	ListByNetwork(ctx context.Context, networkID string) ([]entity.Site, error)
	GetByID(ctx context.Context, id string) (*entity.Site, error)
}
