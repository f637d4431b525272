// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"insightlens/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ForgotPasswordInput carries the address requesting a password reset.
type ForgotPasswordInput struct {
	Email string
}

// ResetPasswordInput carries the address the reset was issued for, the raw
// reset token and the replacement password.
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// SessionOutput returns a session token alongside the authenticated user.
type SessionOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new account and immediately opens a session for
	// it, so the caller never has to follow up with a login. The email is
	// stored lowercased and must not collide with an existing account.
	Register(ctx context.Context, input *RegisterInput) (*SessionOutput, error)

	// Login verifies credentials and issues a fresh session token.
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)

	// GetMe returns the profile of the authenticated user.
	GetMe(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// Refresh issues a fresh session token for an already authenticated user.
	Refresh(ctx context.Context, userID uuid.UUID) (*SessionOutput, error)

	// ForgotPassword starts the reset flow. It reports success whether or
	// not the address belongs to an account.
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error

	// ResetPassword consumes a reset token and replaces the account password.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
