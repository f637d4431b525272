// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"insightlens/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for reset token persistence.
var (
	// ErrResetTokenNotFound is returned when no token matches the given hash.
	ErrResetTokenNotFound = errors.New("reset token not found")
	// ErrResetTokenConsumed is returned when the token was already used or has expired.
	// The two cases are intentionally not distinguished.
	ErrResetTokenConsumed = errors.New("reset token already consumed or expired")
)

// ResetTokenRepository manages single-use password reset tokens.
type ResetTokenRepository interface {
	// CreateResetToken persists a new reset token record.
	CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error

	// ConsumeResetToken atomically marks the token matching the hash as used,
	// provided it is unused and unexpired, and returns the consumed record.
	// Under concurrent calls with the same hash exactly one succeeds; the
	// rest receive ErrResetTokenConsumed or ErrResetTokenNotFound.
	ConsumeResetToken(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)

	// InvalidateResetTokensByUserID marks all outstanding tokens for a user
	// as used, so only the most recently issued token can ever reset.
	InvalidateResetTokensByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpiredResetTokens removes stale token records. Called periodically.
	DeleteExpiredResetTokens(ctx context.Context) error
}
