package impl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("runs OCR, cleans the text and stores the record", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractor.On("ExtractText", mock.Anything, "receipt.png", mock.Anything).
			Return("TOTAL  42.00\nTOTAL  42.00\nThank you", nil)
		f.txManager.On("Execute", mock.Anything).Return(nil)
		f.extractionRepo.On("CreateExtraction", mock.Anything, mock.MatchedBy(func(record *entity.ExtractionRecord) bool {
			return record.UserID == userID &&
				record.Filename == "receipt.png" &&
				record.Text == "TOTAL 42.00 Thank you" &&
				record.Checksum != ""
		})).Return(nil)

		record, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "receipt.png",
			ContentType: "image/png",
			Size:        9,
			Image:       bytes.NewReader([]byte("png-bytes")),
		})

		require.NoError(t, err)
		assert.Equal(t, "TOTAL 42.00 Thank you", record.Text)
		f.extractionRepo.AssertExpectations(t)
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		_, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "notes.pdf",
			ContentType: "application/pdf",
			Size:        100,
			Image:       strings.NewReader("pdf"),
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		f.extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects uploads over the size cap", func(t *testing.T) {
		t.Parallel()

		srv, _ := newExtractionService()

		_, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "huge.png",
			ContentType: "image/png",
			Size:        11 << 20,
			Image:       strings.NewReader("x"),
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		t.Parallel()

		srv, _ := newExtractionService()

		_, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "empty.png",
			ContentType: "image/png",
			Size:        0,
			Image:       strings.NewReader(""),
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})

	t.Run("rejects images with no readable text", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractor.On("ExtractText", mock.Anything, "blank.png", mock.Anything).Return("  \n ", nil)

		_, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "blank.png",
			ContentType: "image/png",
			Size:        3,
			Image:       strings.NewReader("png"),
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		f.extractionRepo.AssertNotCalled(t, "CreateExtraction", mock.Anything, mock.Anything)
	})

	t.Run("propagates upstream provider failures", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractor.On("ExtractText", mock.Anything, "receipt.png", mock.Anything).
			Return("", domainerrors.ErrUpstreamTimeout)

		_, err := srv.ExtractText(context.Background(), &usecase.ExtractTextInput{
			UserID:      userID,
			Filename:    "receipt.png",
			ContentType: "image/png",
			Size:        3,
			Image:       strings.NewReader("png"),
		})

		assert.ErrorIs(t, err, domainerrors.ErrUpstreamTimeout)
	})
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	extractionID := uuid.New()
	storedRecord := &entity.ExtractionRecord{
		ID:     extractionID,
		UserID: userID,
		Text:   "The product arrived on time and works great.",
	}

	t.Run("summarize stores the analysis", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractionRepo.On("FindExtractionByID", mock.Anything, userID, extractionID).Return(storedRecord, nil)
		f.analyzer.On("Summarize", mock.Anything, storedRecord.Text).
			Return(&entity.SummaryPayload{Summary: "Arrived on time, works great."}, nil)
		f.txManager.On("Execute", mock.Anything).Return(nil)
		f.extractionRepo.On("CreateAnalysis", mock.Anything, mock.MatchedBy(func(analysis *entity.AnalysisResult) bool {
			return analysis.ExtractionID == extractionID &&
				analysis.Kind == entity.AnalysisKindSummarize &&
				analysis.Summary != nil
		})).Return(nil)

		analysis, err := srv.Analyze(context.Background(), &usecase.AnalyzeInput{
			UserID:       userID,
			ExtractionID: extractionID,
			Kind:         entity.AnalysisKindSummarize,
		})

		require.NoError(t, err)
		assert.Equal(t, "Arrived on time, works great.", analysis.Summary.Summary)
	})

	t.Run("question requires a question", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		_, err := srv.Analyze(context.Background(), &usecase.AnalyzeInput{
			UserID:       userID,
			ExtractionID: extractionID,
			Kind:         entity.AnalysisKindQuestion,
			Question:     "   ",
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		f.extractionRepo.AssertNotCalled(t, "FindExtractionByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("question passes the trimmed question through", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractionRepo.On("FindExtractionByID", mock.Anything, userID, extractionID).Return(storedRecord, nil)
		f.analyzer.On("AnswerQuestion", mock.Anything, storedRecord.Text, "Did it arrive on time?").
			Return(&entity.QuestionPayload{Answer: "Yes.", Question: "Did it arrive on time?"}, nil)
		f.txManager.On("Execute", mock.Anything).Return(nil)
		f.extractionRepo.On("CreateAnalysis", mock.Anything, mock.Anything).Return(nil)

		analysis, err := srv.Analyze(context.Background(), &usecase.AnalyzeInput{
			UserID:       userID,
			ExtractionID: extractionID,
			Kind:         entity.AnalysisKindQuestion,
			Question:     "  Did it arrive on time?  ",
		})

		require.NoError(t, err)
		assert.Equal(t, "Yes.", analysis.Question.Answer)
	})

	t.Run("rejects an unknown analysis type", func(t *testing.T) {
		t.Parallel()

		srv, _ := newExtractionService()

		_, err := srv.Analyze(context.Background(), &usecase.AnalyzeInput{
			UserID:       userID,
			ExtractionID: extractionID,
			Kind:         entity.AnalysisKind("translate"),
		})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})

	t.Run("maps a foreign extraction to not found", func(t *testing.T) {
		t.Parallel()

		srv, f := newExtractionService()

		f.extractionRepo.On("FindExtractionByID", mock.Anything, userID, extractionID).
			Return(nil, repository.ErrExtractionNotFound)

		_, err := srv.Analyze(context.Background(), &usecase.AnalyzeInput{
			UserID:       userID,
			ExtractionID: extractionID,
			Kind:         entity.AnalysisKindSentiment,
		})

		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
		f.analyzer.AssertNotCalled(t, "AnalyzeSentiment", mock.Anything, mock.Anything)
	})
}

func TestListAnalysisTypes(t *testing.T) {
	t.Parallel()

	srv, _ := newExtractionService()

	infos := srv.ListAnalysisTypes()

	require.Len(t, infos, 3)
	kinds := make([]entity.AnalysisKind, 0, len(infos))
	for _, info := range infos {
		kinds = append(kinds, info.Kind)
	}
	assert.Equal(t, entity.AllAnalysisKinds(), kinds)
}
