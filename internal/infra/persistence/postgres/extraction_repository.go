// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// recentWindow defines the look-back period for the "recent extractions" stat.
const recentWindow = 7 * 24 * time.Hour

// extractionRepository implements the domain.ExtractionRepository interface.
type extractionRepository struct {
	db *gorm.DB
}

// NewExtractionRepository is the constructor for extractionRepository.
func NewExtractionRepository(db *gorm.DB) repository.ExtractionRepository {
	return &extractionRepository{db: db}
}

// CreateExtraction persists a new extraction record.
func (repo *extractionRepository) CreateExtraction(ctx context.Context, record *entity.ExtractionRecord) error {
	recordM := fromExtractionDomain(record)

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required extraction information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create extraction")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

// FindExtractionByID retrieves one record with its analyses, scoped to the owner.
// A record owned by a different user is reported as not found.
func (repo *extractionRepository) FindExtractionByID(ctx context.Context, userID, id uuid.UUID) (*entity.ExtractionRecord, error) {
	var recordM model.ExtractionModel
	err := repo.db.WithContext(ctx).
		Preload("Analyses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&recordM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrExtractionNotFound
		}

		return nil, errors.Wrap(err, "failed to find extraction by id")
	}

	return toExtractionDomain(&recordM)
}

// ListExtractionsByUserID retrieves the owner's records newest first, capped at limit.
func (repo *extractionRepository) ListExtractionsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ExtractionRecord, error) {
	var recordModels []model.ExtractionModel
	err := repo.db.WithContext(ctx).
		Preload("Analyses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recordModels).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list extractions")
	}

	records := make([]*entity.ExtractionRecord, 0, len(recordModels))
	for i := range recordModels {
		record, err := toExtractionDomain(&recordModels[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// DeleteExtraction removes one record and its analyses, scoped to the owner.
func (repo *extractionRepository) DeleteExtraction(ctx context.Context, userID, id uuid.UUID) error {
	// Child analyses go first; the FK cascade covers fresh schemas, this
	// covers databases created before the constraint existed.
	if err := repo.db.WithContext(ctx).
		Where("extraction_id IN (?)",
			repo.db.Model(&model.ExtractionModel{}).
				Select("id").
				Where("id = ? AND user_id = ?", id, userID),
		).
		Delete(&model.AnalysisModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete analyses")
	}

	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ExtractionModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete extraction")
	}

	// If no rows were affected, the record is missing or owned by someone else.
	if result.RowsAffected == 0 {
		return repository.ErrExtractionNotFound
	}

	return nil
}

// CreateAnalysis persists an analysis result under an extraction record.
func (repo *extractionRepository) CreateAnalysis(ctx context.Context, analysis *entity.AnalysisResult) error {
	analysisM, err := fromAnalysisDomain(analysis)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(analysisM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrExtractionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create analysis")
	}

	analysis.ID = analysisM.ID
	analysis.CreatedAt = analysisM.CreatedAt

	return nil
}

// CountStats computes the owner's aggregate stats live from the database.
func (repo *extractionRepository) CountStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	var totalExtractions int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ExtractionModel{}).
		Where("user_id = ?", userID).
		Count(&totalExtractions).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count extractions")
	}

	var totalAnalyses int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AnalysisModel{}).
		Joins("JOIN extractions ON extractions.id = analyses.extraction_id").
		Where("extractions.user_id = ?", userID).
		Count(&totalAnalyses).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count analyses")
	}

	since := time.Now().Add(-recentWindow)
	var recentExtractions int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ExtractionModel{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&recentExtractions).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count recent extractions")
	}

	return &entity.UserStats{
		TotalExtractions:  int(totalExtractions),
		TotalAnalyses:     int(totalAnalyses),
		RecentExtractions: int(recentExtractions),
	}, nil
}

// --- Mapper Functions ---

// toExtractionDomain converts a GORM ExtractionModel to a domain ExtractionRecord entity.
func toExtractionDomain(data *model.ExtractionModel) (*entity.ExtractionRecord, error) {
	if data == nil {
		return nil, nil
	}

	analyses := make([]*entity.AnalysisResult, 0, len(data.Analyses))
	for i := range data.Analyses {
		analysis, err := toAnalysisDomain(&data.Analyses[i])
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return &entity.ExtractionRecord{
		ID:        data.ID,
		UserID:    data.UserID,
		Filename:  data.Filename,
		Text:      data.Text,
		Checksum:  data.Checksum,
		Analyses:  analyses,
		CreatedAt: data.CreatedAt,
	}, nil
}

// fromExtractionDomain converts a domain ExtractionRecord entity to a GORM ExtractionModel.
func fromExtractionDomain(data *entity.ExtractionRecord) *model.ExtractionModel {
	if data == nil {
		return nil
	}

	return &model.ExtractionModel{
		ID:       data.ID,
		UserID:   data.UserID,
		Filename: data.Filename,
		Text:     data.Text,
		Checksum: data.Checksum,
	}
}

// toAnalysisDomain converts a GORM AnalysisModel to a domain AnalysisResult entity.
func toAnalysisDomain(data *model.AnalysisModel) (*entity.AnalysisResult, error) {
	if data == nil {
		return nil, nil
	}

	analysis := &entity.AnalysisResult{
		ID:           data.ID,
		ExtractionID: data.ExtractionID,
		Kind:         entity.AnalysisKind(data.Kind),
		CreatedAt:    data.CreatedAt,
	}

	switch analysis.Kind {
	case entity.AnalysisKindSummarize:
		payload := &entity.SummaryPayload{}
		if err := json.Unmarshal(data.Payload, payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode summary payload")
		}
		analysis.Summary = payload
	case entity.AnalysisKindSentiment:
		payload := &entity.SentimentPayload{}
		if err := json.Unmarshal(data.Payload, payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode sentiment payload")
		}
		analysis.Sentiment = payload
	case entity.AnalysisKindQuestion:
		payload := &entity.QuestionPayload{}
		if err := json.Unmarshal(data.Payload, payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode question payload")
		}
		analysis.Question = payload
	default:
		return nil, errors.Errorf("unknown analysis kind %q", data.Kind)
	}

	return analysis, nil
}

// fromAnalysisDomain converts a domain AnalysisResult entity to a GORM AnalysisModel.
func fromAnalysisDomain(data *entity.AnalysisResult) (*model.AnalysisModel, error) {
	if data == nil {
		return nil, nil
	}

	payload, err := json.Marshal(data.Payload())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode analysis payload")
	}

	return &model.AnalysisModel{
		ID:           data.ID,
		ExtractionID: data.ExtractionID,
		Kind:         string(data.Kind),
		Payload:      payload,
	}, nil
}
