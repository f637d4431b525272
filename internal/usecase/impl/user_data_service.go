package impl

import (
	"context"
	"log/slog"

	"insightlens/config"
	deliverycontext "insightlens/internal/delivery/context"
	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// userDataService implements the UserDataUsecase interface.
type userDataService struct {
	txManager      repository.TransactionManager
	extractionRepo repository.ExtractionRepository
	logger         *slog.Logger
}

// UserDataServiceParams holds dependencies for userDataService, injected by Fx.
type UserDataServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	ExtractionRepo repository.ExtractionRepository
	Config         *config.Config
	Logger         *slog.Logger
}

// NewUserDataService is the constructor for userDataService.
func NewUserDataService(params UserDataServiceParams) usecase.UserDataUsecase {
	return &userDataService{
		txManager:      params.TxManager,
		extractionRepo: params.ExtractionRepo,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userDataService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListExtractions returns the user's extraction history, newest first.
func (srv *userDataService) ListExtractions(ctx context.Context, input *usecase.ListExtractionsInput) ([]*entity.ExtractionRecord, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := srv.extractionRepo.ListExtractionsByUserID(ctx, input.UserID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list extractions")
	}

	return records, nil
}

// GetExtraction returns one extraction with its analyses. Records owned by
// other users are reported as not found.
func (srv *userDataService) GetExtraction(ctx context.Context, userID, id uuid.UUID) (*entity.ExtractionRecord, error) {
	record, err := srv.extractionRepo.FindExtractionByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrExtractionNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to find extraction")
	}

	return record, nil
}

// GetStats computes the user's aggregate usage stats.
func (srv *userDataService) GetStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	stats, err := srv.extractionRepo.CountStats(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count stats")
	}

	return stats, nil
}

// DeleteExtraction removes one extraction and its analyses.
func (srv *userDataService) DeleteExtraction(ctx context.Context, userID, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.ExtractionRepo().DeleteExtraction(ctx, userID, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrExtractionNotFound) {
			return domainerrors.ErrNotFound
		}

		return err
	}

	srv.log(ctx).Info("Extraction deleted",
		slog.String("userID", userID.String()),
		slog.String("extractionID", id.String()))

	return nil
}
