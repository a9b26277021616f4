package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository usuarios en memoria; el email se compara sin distinguir mayúsculas.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User // por email normalizado
}

// NewUserRepository crea un repositorio vacío.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]entity.User{}}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	key := strings.ToLower(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.users[key] = *user
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) CountByNetwork(_ context.Context, networkID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, u := range r.users {
		if u.NetworkID == networkID {
			n++
		}
	}
	return n, nil
}
