package usecase

import (
	"context"
	"io"

	"insightlens/internal/domain/entity"

	"github.com/google/uuid"
)

// ExtractTextInput carries an uploaded image and its request metadata.
type ExtractTextInput struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Image       io.Reader
}

// AnalyzeInput selects an analysis to run over a stored extraction.
// Question is required only when Kind is question.
type AnalyzeInput struct {
	UserID       uuid.UUID
	ExtractionID uuid.UUID
	Kind         entity.AnalysisKind
	Question     string
}

// AnalysisTypeInfo describes one supported analysis for discovery endpoints.
type AnalysisTypeInfo struct {
	Kind        entity.AnalysisKind
	Name        string
	Description string
}

// ExtractionUsecase defines the interface for the OCR and analysis pipeline.
type ExtractionUsecase interface {
	// ExtractText validates the upload, runs OCR, cleans the recovered text
	// and persists the result under the requesting user.
	ExtractText(ctx context.Context, input *ExtractTextInput) (*entity.ExtractionRecord, error)

	// Analyze runs one AI analysis over a stored extraction the user owns
	// and persists the result.
	Analyze(ctx context.Context, input *AnalyzeInput) (*entity.AnalysisResult, error)

	// ListAnalysisTypes describes the supported analyses.
	ListAnalysisTypes() []AnalysisTypeInfo
}
