package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skecho/skecho-client/internal/model"
)

// Claims represents identity-provider claims carried by a bearer
// token. The subject is the provider's opaque user id.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Manager mints and verifies HMAC-signed identity tokens. In
// production verification belongs to the commerce service; the client
// carries the manager for the development stub and for deriving an
// Identity from a token it was handed.
type Manager struct {
	secretKey string
}

// NewManager creates a token manager with the provided secret key.
func NewManager(secretKey string) *Manager {
	return &Manager{secretKey: secretKey}
}

const defaultTTL = 15 * time.Minute

// Mint creates a short-lived bearer token for the given identity.
func (m *Manager) Mint(identity model.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(defaultTTL)),
		},
		Name:  identity.Name,
		Email: identity.Email,
	})

	tokenString, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseIdentity validates a bearer token and extracts the identity it
// was issued for.
func (m *Manager) ParseIdentity(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return model.Identity{}, fmt.Errorf("token is invalid")
	}
	if claims.Subject == "" {
		return model.Identity{}, fmt.Errorf("token has no subject")
	}

	return model.Identity{
		UID:   claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}

// ParseIdentityUnverified extracts identity claims without verifying
// the signature. The client is not the token's audience; it only needs
// the claims for display and cache keying, the way a browser app reads
// its own id token. Never use this to authorize anything.
func ParseIdentityUnverified(tokenString string) (model.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return model.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return model.Identity{}, fmt.Errorf("token has no subject")
	}

	return model.Identity{
		UID:   claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}

// StaticSource is a TokenSource that always returns the same token.
// Useful for development flows where the token is supplied externally.
type StaticSource string

// Token implements model.TokenSource.
func (s StaticSource) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", model.ErrUnauthorized
	}
	return string(s), nil
}
