// Package auth issues and validates the bearer tokens that gate the upscale
// endpoints when a signing secret is configured.
package auth

import (
	"context"
	"time"
)

// TokenService defines operations for managing JWT access tokens.
type TokenService interface {
	// GenerateToken creates a signed JWT access token for subject, typically
	// the name of the client or operator the token is issued to.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated contents of an access token.
type Claims struct {
	// TokenType is always "access" for tokens accepted by ValidateToken.
	TokenType string `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
