package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthenticator(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-secret"))
	ctx := context.Background()

	token, err := auth.Sign(models.User{ID: "user-1", Email: "a@example.com"}, jwt.NewNumericDate(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	user, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: "user-1", Email: "a@example.com"}, user)

	t.Run("missing", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "")
		assert.ErrorIs(t, err, errs.ErrMissingToken)
		assert.True(t, errs.IsUnauthorized(err))
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := auth.Sign(models.User{ID: "user-1"}, jwt.NewNumericDate(time.Now().Add(-time.Minute)))
		require.NoError(t, err)
		_, err = auth.Authenticate(ctx, expired)
		assert.ErrorIs(t, err, errs.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := NewJWTAuthenticator([]byte("other")).Sign(models.User{ID: "user-1"}, nil)
		require.NoError(t, err)
		_, err = auth.Authenticate(ctx, forged)
		assert.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		anonymous, err := auth.Sign(models.User{}, nil)
		require.NoError(t, err)
		_, err = auth.Authenticate(ctx, anonymous)
		assert.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}

type fakeSessions struct {
	ok    bool
	token *descope.Token
	err   error
}

func (f fakeSessions) ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error) {
	return f.ok, f.token, f.err
}

func TestDescopeAuthenticator(t *testing.T) {
	ctx := context.Background()

	auth := &DescopeAuthenticator{sessions: fakeSessions{
		ok:    true,
		token: &descope.Token{ID: "U2abc", Claims: map[string]any{"email": "b@example.com"}},
	}}
	user, err := auth.Authenticate(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, "U2abc", user.ID)
	assert.Equal(t, "b@example.com", user.Email)

	rejected := &DescopeAuthenticator{sessions: fakeSessions{err: errors.New("expired")}}
	_, err = rejected.Authenticate(ctx, "session")
	assert.ErrorIs(t, err, errs.ErrInvalidToken)

	_, err = auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, errs.ErrMissingToken)
}

func TestNewAuthenticatorRequiresSecret(t *testing.T) {
	_, err := NewAuthenticator(map[string]string{})
	assert.Error(t, err)

	a, err := NewAuthenticator(map[string]string{"JWT_SECRET": "x"})
	require.NoError(t, err)
	assert.IsType(t, &JWTAuthenticator{}, a)
}
