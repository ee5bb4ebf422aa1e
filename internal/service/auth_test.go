package service

import (
	"context"
	"testing"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	env := newTestEnv(t)
	return &AuthService{Repo: env.Repo, JWTSecret: testSecret}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to customer")
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	_, err = auth.Register(ctx, "alice", "other", "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = auth.Register(ctx, "", "pw", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(ctx, "bob", "pw", "Superuser")
	assert.ErrorIs(t, err, ErrValidation)

	vendor, err := auth.Register(ctx, "carol", "pw", models.RoleVendor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, vendor.Role)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	auth := newAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice", "s3cret", models.RoleCSR)
	require.NoError(t, err)

	res, err := auth.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleCSR, claims.Role)

	_, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrValidation)
}
