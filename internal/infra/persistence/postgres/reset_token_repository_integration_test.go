//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"insightlens/internal/domain/entity"
	"insightlens/internal/domain/repository"
	"insightlens/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newIntegrationDB connects to the Postgres instance named by
// TEST_DATABASE_DSN and ensures the reset token table exists. Run with
//
//	TEST_DATABASE_DSN="host=... user=... dbname=..." go test -tags integration ./internal/infra/persistence/postgres/
func newIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Plain DDL instead of AutoMigrate: the model's uuid default needs an
	// extension a scratch database may not have, and the tests set IDs
	// themselves.
	require.NoError(t, db.Exec(`
		CREATE TABLE IF NOT EXISTS password_reset_tokens (
			id uuid PRIMARY KEY,
			user_id uuid NOT NULL,
			token_hash varchar(64) UNIQUE NOT NULL,
			expires_at timestamptz NOT NULL,
			used_at timestamptz,
			created_at timestamptz
		)`).Error)

	return db
}

func insertResetToken(t *testing.T, repo repository.ResetTokenRepository, expiresAt time.Time) *entity.PasswordResetToken {
	t.Helper()

	token := &entity.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: uuid.NewString(),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, repo.CreateResetToken(context.Background(), token))

	return token
}

func TestResetTokenRepository_ConsumeIsSingleUse_Integration(t *testing.T) {
	db := newIntegrationDB(t)
	repo := NewResetTokenRepository(db)

	token := insertResetToken(t, repo, time.Now().Add(time.Hour))
	t.Cleanup(func() {
		db.Where("token_hash = ?", token.TokenHash).Delete(&model.ResetTokenModel{})
	})

	// Fire all consumers through one gate so they race on the same row.
	const attempts = 16

	start := make(chan struct{})
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.ConsumeResetToken(context.Background(), token.TokenHash)
			results <- err
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	var succeeded, consumed int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, repository.ErrResetTokenConsumed):
			consumed++
		default:
			t.Errorf("unexpected consume error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one concurrent consumer must win")
	assert.Equal(t, attempts-1, consumed)
}

func TestResetTokenRepository_ConsumeRejectsExpiredAndUnknown_Integration(t *testing.T) {
	db := newIntegrationDB(t)
	repo := NewResetTokenRepository(db)

	expired := insertResetToken(t, repo, time.Now().Add(-time.Minute))
	t.Cleanup(func() {
		db.Where("token_hash = ?", expired.TokenHash).Delete(&model.ResetTokenModel{})
	})

	_, err := repo.ConsumeResetToken(context.Background(), expired.TokenHash)
	assert.ErrorIs(t, err, repository.ErrResetTokenConsumed)

	_, err = repo.ConsumeResetToken(context.Background(), "no-such-hash")
	assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
}
