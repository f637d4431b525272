// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"insightlens/config"
	"insightlens/internal/domain/service"
	"insightlens/internal/errors"
)

const (
	defaultSessionTTL = 30 * time.Minute
	defaultResetTTL   = time.Hour

	sessionTokenType = "session"

	// resetTokenBytes matches a 32-byte URL-safe token.
	resetTokenBytes = 32
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard
// for session tokens and random URL-safe strings for reset tokens.
type jwtService struct {
	sessionSecret string
	sessionTTL    time.Duration
	resetTTL      time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	sessionTTL := defaultSessionTTL
	resetTTL := defaultResetTTL
	if cfg.Auth != nil {
		if cfg.Auth.SessionTokenTTL > 0 {
			sessionTTL = cfg.Auth.SessionTokenTTL
		}
		if cfg.Auth.ResetTokenTTL > 0 {
			resetTTL = cfg.Auth.ResetTokenTTL
		}
	}

	return &jwtService{
		sessionSecret: cfg.SecretKey.Session,
		sessionTTL:    sessionTTL,
		resetTTL:      resetTTL,
	}, nil
}

// GenerateSessionToken creates a signed HS256 session JWT for a given user.
func (s *jwtService) GenerateSessionToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),              // Subject (who the token is for)
		"iat":  now.Unix(),                   // Issued At
		"exp":  now.Add(s.sessionTTL).Unix(), // Expiration Time
		"type": sessionTokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.sessionSecret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// ValidateSessionToken checks the signature, expiry and type of a session token
// and extracts its claims.
func (s *jwtService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !token.Valid {
		return nil, errors.New("session token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected session token claims type")
	}

	tokenType, _ := mapClaims["type"].(string)
	if tokenType != sessionTokenType {
		return nil, errors.Errorf("unexpected token type %q", tokenType)
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(err, "session token has no subject")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "session token subject is not a user id")
	}

	return &service.SessionClaims{
		UserID: userID,
		Type:   tokenType,
	}, nil
}

// GenerateResetToken mints a random URL-safe reset token along with its
// storage hash. The raw token leaves the process only via mail.
func (s *jwtService) GenerateResetToken() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "failed to read random bytes for reset token")
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)

	return raw, s.HashResetToken(raw), nil
}

// HashResetToken hashes a raw reset token with SHA-256 for storage lookup.
func (s *jwtService) HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// SessionTokenDuration returns the configured session token lifetime.
func (s *jwtService) SessionTokenDuration() time.Duration {
	return s.sessionTTL
}

// ResetTokenDuration returns the configured reset token lifetime.
func (s *jwtService) ResetTokenDuration() time.Duration {
	return s.resetTTL
}
