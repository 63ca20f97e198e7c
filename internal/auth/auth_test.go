package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
)

func newService(t *testing.T) *AuthService {
	t.Helper()
	SetSecret("test-secret")
	users := repo.NewInMemoryUserRepository()
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	_, err = users.CreateUser(models.User{Username: "admin", PasswordHash: hash, Role: models.RoleAdmin})
	require.NoError(t, err)
	return NewAuthService(users, NewMemoryRefreshStore(), time.Hour)
}

func TestLoginAndClaims(t *testing.T) {
	svc := newService(t)

	pair, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)

	_, claims, err := TokenClaims("Bearer " + pair.AccessToken)
	require.NoError(t, err)
	id, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 1, Username: "admin", Role: models.RoleAdmin}, id)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newService(t)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotates(t *testing.T) {
	svc := newService(t)
	pair, err := svc.Login("admin", "secret")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	require.NoError(t, svc.Logout(next.RefreshToken))
	_, err = svc.Refresh(next.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}

func TestTokenClaimsRejects(t *testing.T) {
	SetSecret("one")
	token, err := GenerateToken(models.User{ID: 1, Username: "a"})
	require.NoError(t, err)

	_, _, err = TokenClaims(token)
	assert.ErrorIs(t, err, ErrMissingToken)

	SetSecret("two")
	_, _, err = TokenClaims("Bearer " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryRefreshStoreExpiry(t *testing.T) {
	s := NewMemoryRefreshStore()
	require.NoError(t, s.Put("t", 4, -time.Second))
	_, err := s.Take("t")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
