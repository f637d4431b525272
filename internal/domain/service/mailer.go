package service

import "context"

// Mailer defines the interface for transactional mail delivery.
type Mailer interface {
	// SendPasswordResetMail delivers a password reset link to the given address.
	// The raw reset token must never be logged by implementations.
	SendPasswordResetMail(ctx context.Context, email, name, resetLink string) error
}
