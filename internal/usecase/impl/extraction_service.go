package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"insightlens/config"
	deliverycontext "insightlens/internal/delivery/context"
	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/domain/service"
	"insightlens/internal/usecase"
	"insightlens/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// defaultMaxUploadBytes caps uploads when no limit is configured.
const defaultMaxUploadBytes = 10 << 20

// extractionService implements the ExtractionUsecase interface.
type extractionService struct {
	txManager      repository.TransactionManager
	extractionRepo repository.ExtractionRepository
	extractor      service.TextExtractor
	analyzer       service.TextAnalyzer
	maxUploadBytes int64
	logger         *slog.Logger
}

// ExtractionServiceParams holds dependencies for extractionService, injected by Fx.
type ExtractionServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	ExtractionRepo repository.ExtractionRepository
	Extractor      service.TextExtractor
	Analyzer       service.TextAnalyzer
	Config         *config.Config
	Logger         *slog.Logger
}

// NewExtractionService is the constructor for extractionService.
func NewExtractionService(params ExtractionServiceParams) usecase.ExtractionUsecase {
	maxUploadBytes := int64(defaultMaxUploadBytes)
	if params.Config != nil && params.Config.Upload != nil && params.Config.Upload.MaxSizeBytes > 0 {
		maxUploadBytes = params.Config.Upload.MaxSizeBytes
	}

	return &extractionService{
		txManager:      params.TxManager,
		extractionRepo: params.ExtractionRepo,
		extractor:      params.Extractor,
		analyzer:       params.Analyzer,
		maxUploadBytes: maxUploadBytes,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *extractionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ExtractText validates the upload, runs OCR, cleans the recovered text and
// persists the result under the requesting user.
func (srv *extractionService) ExtractText(ctx context.Context, input *usecase.ExtractTextInput) (*entity.ExtractionRecord, error) {
	if err := srv.validateUpload(input); err != nil {
		return nil, err
	}

	// The image is needed twice, for the checksum and for the OCR call,
	// so it is buffered once up front. The extra byte exposes uploads
	// whose declared size was a lie.
	image, err := io.ReadAll(io.LimitReader(input.Image, srv.maxUploadBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(image)) > srv.maxUploadBytes {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(
			"image exceeds the maximum upload size of " + util.FormatBytes(srv.maxUploadBytes))
	}
	if len(image) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("uploaded image is empty")
	}

	checksum, err := util.CalculateChecksum(bytes.NewReader(image))
	if err != nil {
		return nil, errors.Wrap(err, "failed to checksum upload")
	}

	srv.log(ctx).Info("Running OCR",
		slog.String("userID", input.UserID.String()),
		slog.String("filename", input.Filename),
		slog.Int("size", len(image)))

	rawText, err := srv.extractor.ExtractText(ctx, input.Filename, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}

	text := util.CleanText(rawText)
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("no readable text was found in the image")
	}

	record := &entity.ExtractionRecord{
		UserID:   input.UserID,
		Filename: input.Filename,
		Text:     text,
		Checksum: checksum,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ExtractionRepo().CreateExtraction(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Extraction stored",
		slog.String("extractionID", record.ID.String()),
		slog.Int("textLength", len(text)))

	return record, nil
}

// Analyze runs one AI analysis over a stored extraction the user owns and
// persists the result.
func (srv *extractionService) Analyze(ctx context.Context, input *usecase.AnalyzeInput) (*entity.AnalysisResult, error) {
	if !input.Kind.Valid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown analysis type")
	}

	question := strings.TrimSpace(input.Question)
	if input.Kind == entity.AnalysisKindQuestion && question == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("a question is required for question analysis")
	}

	record, err := srv.extractionRepo.FindExtractionByID(ctx, input.UserID, input.ExtractionID)
	if err != nil {
		if errors.Is(err, repository.ErrExtractionNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find extraction")
	}

	srv.log(ctx).Info("Running analysis",
		slog.String("extractionID", record.ID.String()),
		slog.Any("kind", input.Kind))

	analysis := &entity.AnalysisResult{
		ExtractionID: record.ID,
		Kind:         input.Kind,
	}

	switch input.Kind {
	case entity.AnalysisKindSummarize:
		analysis.Summary, err = srv.analyzer.Summarize(ctx, record.Text)
	case entity.AnalysisKindSentiment:
		analysis.Sentiment, err = srv.analyzer.AnalyzeSentiment(ctx, record.Text)
	case entity.AnalysisKindQuestion:
		analysis.Question, err = srv.analyzer.AnswerQuestion(ctx, record.Text, question)
	}
	if err != nil {
		return nil, err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ExtractionRepo().CreateAnalysis(ctx, analysis)
	})
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// ListAnalysisTypes describes the supported analyses.
func (srv *extractionService) ListAnalysisTypes() []usecase.AnalysisTypeInfo {
	return []usecase.AnalysisTypeInfo{
		{
			Kind:        entity.AnalysisKindSummarize,
			Name:        "Summarize",
			Description: "Condense the extracted text into a short summary.",
		},
		{
			Kind:        entity.AnalysisKindSentiment,
			Name:        "Sentiment",
			Description: "Classify the overall sentiment of the extracted text.",
		},
		{
			Kind:        entity.AnalysisKindQuestion,
			Name:        "Question",
			Description: "Answer a free-form question using the extracted text as context.",
		},
	}
}

// validateUpload rejects requests before any bytes are read.
func (srv *extractionService) validateUpload(input *usecase.ExtractTextInput) error {
	if input.Image == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("an image file is required")
	}

	if !strings.HasPrefix(strings.ToLower(input.ContentType), "image/") {
		return domainerrors.ErrValidationFailed.WrapMessage("only image uploads are supported")
	}

	if input.Size > srv.maxUploadBytes {
		return domainerrors.ErrValidationFailed.WrapMessage(
			"image exceeds the maximum upload size of " + util.FormatBytes(srv.maxUploadBytes))
	}

	return nil
}
