package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/data-table-transformer/config"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
)

// Authenticator resolves a session token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// NewAuthenticator picks Descope when DESCOPE_PROJECT_ID is set and falls back
// to HS256 tokens signed with JWT_SECRET.
func NewAuthenticator(c map[string]string) (Authenticator, error) {
	if projectID := config.GetString(c, "DESCOPE_PROJECT_ID", ""); projectID != "" {
		return NewDescopeAuthenticator(projectID)
	}

	secret := config.GetString(c, "JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("either DESCOPE_PROJECT_ID or JWT_SECRET must be set")
	}
	return NewJWTAuthenticator([]byte(secret)), nil
}

type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator validates HS256 tokens; the subject is the user id.
type JWTAuthenticator struct {
	secret []byte
}

func NewJWTAuthenticator(secret []byte) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret}
}

func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errs.NewExpiredTokenError()
	}
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if claims.Subject == "" {
		return nil, errs.NewInvalidTokenError(errors.New("token has no subject"))
	}

	return &models.User{ID: claims.Subject, Email: claims.Email}, nil
}

// Sign issues a token for user valid until exp. Used by tooling and tests.
func (a *JWTAuthenticator) Sign(user models.User, exp *jwt.NumericDate) (string, error) {
	claims := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: exp,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

type sessionValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeAuthenticator validates sessions issued by a Descope project
type DescopeAuthenticator struct {
	sessions sessionValidator
}

func NewDescopeAuthenticator(projectID string) (*DescopeAuthenticator, error) {
	descopeClient, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to create descope client: %w", err)
	}
	return &DescopeAuthenticator{sessions: descopeClient.Auth}, nil
}

func (a *DescopeAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}

	ok, session, err := a.sessions.ValidateSessionWithToken(ctx, token)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if !ok || session == nil || session.ID == "" {
		return nil, errs.NewInvalidTokenError(errors.New("session rejected"))
	}

	user := &models.User{ID: session.ID}
	if email, ok := session.Claims["email"].(string); ok {
		user.Email = email
	}
	return user, nil
}
