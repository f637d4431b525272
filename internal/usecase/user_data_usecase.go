package usecase

import (
	"context"

	"insightlens/internal/domain/entity"

	"github.com/google/uuid"
)

// ListExtractionsInput selects a page of a user's extraction history.
// Limit zero means the default page size.
type ListExtractionsInput struct {
	UserID uuid.UUID
	Limit  int
}

// UserDataUsecase defines the interface for reading and managing a user's
// stored extractions and their aggregate stats.
type UserDataUsecase interface {
	// ListExtractions returns the user's extraction history, newest first.
	ListExtractions(ctx context.Context, input *ListExtractionsInput) ([]*entity.ExtractionRecord, error)

	// GetExtraction returns one extraction with its analyses. Records owned
	// by other users are reported as not found.
	GetExtraction(ctx context.Context, userID, id uuid.UUID) (*entity.ExtractionRecord, error)

	// GetStats computes the user's aggregate usage stats.
	GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error)

	// DeleteExtraction removes one extraction and its analyses.
	DeleteExtraction(ctx context.Context, userID, id uuid.UUID) error
}
