// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"insightlens/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrExtractionNotFound is returned when no extraction record matches the
// given ID within the given owner's data. A record owned by somebody else
// yields the same error as a missing one.
var ErrExtractionNotFound = errors.New("extraction record not found")

// ExtractionRepository manages OCR extraction records and their analyses.
// Every read and write is scoped to an owning user.
type ExtractionRepository interface {
	// CreateExtraction persists a new extraction record.
	CreateExtraction(ctx context.Context, record *entity.ExtractionRecord) error

	// FindExtractionByID retrieves one record with its analyses, scoped to the owner.
	FindExtractionByID(ctx context.Context, userID, id uuid.UUID) (*entity.ExtractionRecord, error)

	// ListExtractionsByUserID retrieves the owner's records newest first,
	// capped at limit, with analyses preloaded.
	ListExtractionsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ExtractionRecord, error)

	// DeleteExtraction removes one record and its analyses, scoped to the owner.
	// Returns ErrExtractionNotFound when nothing was deleted.
	DeleteExtraction(ctx context.Context, userID, id uuid.UUID) error

	// CreateAnalysis persists an analysis result under an extraction record.
	CreateAnalysis(ctx context.Context, analysis *entity.AnalysisResult) error

	// CountStats computes the owner's aggregate stats live from storage.
	CountStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)
}
