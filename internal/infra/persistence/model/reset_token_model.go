package model

import (
	"time"

	"github.com/google/uuid"
)

// ResetTokenModel mirrors the 'password_reset_tokens' table. Only the SHA-256
// hash of a token is ever stored. UsedAt is the single-use marker: consumption
// is a conditional update on `used_at IS NULL`.
type ResetTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);unique;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
