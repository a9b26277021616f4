package repository

import (
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	// GetByEmail devuelve domain.ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	CountByNetwork(ctx context.Context, networkID string) (int, error)
}
