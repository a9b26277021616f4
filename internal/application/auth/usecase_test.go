package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	"github.com/jhoicas/Suministros-api/internal/infrastructure/memory"
	"github.com/jhoicas/Suministros-api/pkg/jwt"
)

var tokens, _ = jwt.NewSigner("auth-test-secret", "suministros-test", 5*time.Minute)

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewUserRepository(), tokens).WithHashCost(bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	user, err := uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{
		Email: "Planner@Example.org", Password: "s3cret-pass", Role: entity.RolePlanner,
	})
	require.NoError(t, err)
	assert.Equal(t, "planner@example.org", user.Email)
	assert.Equal(t, "net-1", user.NetworkID)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "planner@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)

	id, err := tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: user.ID, NetworkID: "net-1", Role: entity.RolePlanner}, id)
}

func TestRegister_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	user, err := uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{Email: "v@example.org", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, user.Role)
	assert.Equal(t, "v@example.org", user.Name)

	_, err = uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{Email: "v@example.org", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{Email: "x@example.org", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{Email: "y@example.org", Password: "12345678", Role: "bodeguero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_WrongCredentials(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, "net-1", dto.RegisterRequest{Email: "a@example.org", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.org", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.org", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureAdmin_OnlyOnEmptyNetwork(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	created, err := uc.EnsureAdmin(ctx, "net-1", "admin@example.org", "admin-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "net-1", "other@example.org", "admin-pass")
	require.NoError(t, err)
	assert.False(t, created)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@example.org", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}
