package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims defines the custom claims carried by a session JWT.
type SessionClaims struct {
	UserID uuid.UUID
	Type   string
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and validating session JWTs
// and for minting single-use password reset tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateSessionToken creates a signed, short-lived session JWT for a user.
	GenerateSessionToken(userID uuid.UUID) (string, error)

	// ValidateSessionToken checks a session token's signature, expiry and type.
	ValidateSessionToken(tokenString string) (*SessionClaims, error)

	// GenerateResetToken mints a fresh URL-safe reset token and returns the
	// raw token together with the hash to persist.
	GenerateResetToken() (raw string, hash string, err error)

	// HashResetToken hashes a raw reset token for storage lookup.
	HashResetToken(raw string) string

	// SessionTokenDuration returns the configured session token lifetime.
	SessionTokenDuration() time.Duration

	// ResetTokenDuration returns the configured reset token lifetime.
	ResetTokenDuration() time.Duration
}
