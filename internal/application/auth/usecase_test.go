package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-envios/internal/application/auth"
	"github.com/jhoicas/inventario-envios/internal/application/dto"
	"github.com/jhoicas/inventario-envios/internal/domain"
	"github.com/jhoicas/inventario-envios/internal/domain/entity"
	"github.com/jhoicas/inventario-envios/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-envios/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore()
	store.AddUser(entity.User{ID: 10, Email: "bodega@acme.co", PasswordHash: string(hash), Name: "Bodega", Role: entity.RoleBodeguero, Status: "active"})
	store.AddUser(entity.User{ID: 11, Email: "retirado@acme.co", PasswordHash: string(hash), Name: "Retirado", Role: entity.RoleVendedor, Status: "inactive"})
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
}

func TestLogin_TokenLlevaIDYRol(t *testing.T) {
	uc := newAuth(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "Bodega@ACME.co", Password: "clave123"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.User.ID)

	userID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(10), userID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "bodega@acme.co", Password: "otra"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@acme.co", Password: "clave123"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "retirado@acme.co", Password: "clave123"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "no-es-email", Password: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestMe(t *testing.T) {
	uc := newAuth(t)

	me, err := uc.Me(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "bodega@acme.co", me.Email)

	_, err = uc.Me(context.Background(), 999)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
