// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// resetTokenRepository implements the domain.ResetTokenRepository interface.
type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository is the constructor for resetTokenRepository.
func NewResetTokenRepository(db *gorm.DB) repository.ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

// CreateResetToken persists a new reset token record.
func (repo *resetTokenRepository) CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	tokenM := fromResetTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrInvalidOrExpiredToken.WrapMessage("reset token hash already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create reset token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// ConsumeResetToken atomically marks the token matching the hash as used.
// The single-use guarantee lives in the WHERE clause: the UPDATE only lands
// when used_at is still NULL and the token is unexpired, so concurrent
// consumers race on rows-affected and exactly one wins.
func (repo *resetTokenRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.ResetTokenModel{}).
		Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, now).
		Update("used_at", now)

	if result.Error != nil {
		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to consume reset token")
	}

	if result.RowsAffected == 0 {
		// Distinguish "never existed" from "used or expired" for logging;
		// callers collapse both into the same opaque error.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.ResetTokenModel{}).
			Where("token_hash = ?", tokenHash).
			Count(&count).Error; err != nil {
			return nil, errors.Wrap(err, "failed to probe reset token")
		}
		if count == 0 {
			return nil, repository.ErrResetTokenNotFound
		}

		return nil, repository.ErrResetTokenConsumed
	}

	var tokenM model.ResetTokenModel
	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load consumed reset token")
	}

	return toResetTokenDomain(&tokenM), nil
}

// InvalidateResetTokensByUserID marks all outstanding tokens for a user as used.
func (repo *resetTokenRepository) InvalidateResetTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()

	if err := repo.db.WithContext(ctx).
		Model(&model.ResetTokenModel{}).
		Where("user_id = ? AND used_at IS NULL", userID).
		Update("used_at", now).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteExpiredResetTokens removes stale token records from the database.
func (repo *resetTokenRepository) DeleteExpiredResetTokens(ctx context.Context) error {
	now := time.Now()

	if err := repo.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.ResetTokenModel{}).Error; err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

// toResetTokenDomain converts a GORM ResetTokenModel to a domain PasswordResetToken entity.
func toResetTokenDomain(data *model.ResetTokenModel) *entity.PasswordResetToken {
	if data == nil {
		return nil
	}

	return &entity.PasswordResetToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromResetTokenDomain converts a domain PasswordResetToken entity to a GORM ResetTokenModel.
func fromResetTokenDomain(data *entity.PasswordResetToken) *model.ResetTokenModel {
	if data == nil {
		return nil
	}

	return &model.ResetTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}
