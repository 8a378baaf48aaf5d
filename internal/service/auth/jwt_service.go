// Package auth verifies caller identity. Tokens are issued by an
// external identity provider sharing the HMAC secret; this service only
// validates them and extracts the user ID, it never mints tokens.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenVerifier validates JWT access tokens presented by API callers.
type TokenVerifier interface {
	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing user information if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the claims extracted from a verified token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
