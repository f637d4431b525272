// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken represents a single-use, time-limited authorization to
// replace an account's password. The raw token is only ever sent to the
// user's mailbox; the database stores a SHA-256 hash of it.
type PasswordResetToken struct {
	ID        uuid.UUID  // The unique ID for this reset token record.
	UserID    uuid.UUID  // Links the token to the account it can reset.
	TokenHash string     // SHA-256 hash of the raw token for secure lookup.
	ExpiresAt time.Time  // The exact time when this token becomes invalid.
	UsedAt    *time.Time // Set when the token is consumed. Nil while unused.
	CreatedAt time.Time  // Timestamp of when the token was issued.
}

// Consumed reports whether the token has already been used.
func (t *PasswordResetToken) Consumed() bool {
	return t.UsedAt != nil
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
