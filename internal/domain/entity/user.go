// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. Email is the login identifier and is
// stored lowercased so uniqueness is case-insensitive.
type User struct {
	ID           uuid.UUID // The unique identifier for the account.
	Email        string    // The user's login email, always lowercased.
	Name         string    // The user's display name.
	PasswordHash string    // The bcrypt hash of the user's password. Never serialized.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}
