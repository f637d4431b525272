package impl

import (
	"context"
	"io"
	"time"

	"insightlens/internal/domain/entity"
	"insightlens/internal/domain/repository"
	"insightlens/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockTransactionManager runs the transactional function against a
// mockRepositoryFactory, so tests observe exactly what would hit the
// database without a real transaction.
type mockTransactionManager struct {
	mock.Mock
	factory *mockRepositoryFactory
}

func (m *mockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}

	return fn(m.factory)
}

type mockRepositoryFactory struct {
	userRepo       *mockUserRepository
	resetTokenRepo *mockResetTokenRepository
	extractionRepo *mockExtractionRepository
}

func (m *mockRepositoryFactory) UserRepo() repository.UserRepository {
	return m.userRepo
}

func (m *mockRepositoryFactory) ResetTokenRepo() repository.ResetTokenRepository {
	return m.resetTokenRepo
}

func (m *mockRepositoryFactory) ExtractionRepo() repository.ExtractionRepository {
	return m.extractionRepo
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)

	return args.Error(0)
}

type mockResetTokenRepository struct {
	mock.Mock
}

func (m *mockResetTokenRepository) CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *mockResetTokenRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if token, ok := args.Get(0).(*entity.PasswordResetToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockResetTokenRepository) InvalidateResetTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *mockResetTokenRepository) DeleteExpiredResetTokens(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

type mockExtractionRepository struct {
	mock.Mock
}

func (m *mockExtractionRepository) CreateExtraction(ctx context.Context, record *entity.ExtractionRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *mockExtractionRepository) FindExtractionByID(ctx context.Context, userID, id uuid.UUID) (*entity.ExtractionRecord, error) {
	args := m.Called(ctx, userID, id)
	if record, ok := args.Get(0).(*entity.ExtractionRecord); ok {
		return record, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockExtractionRepository) ListExtractionsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.ExtractionRecord, error) {
	args := m.Called(ctx, userID, limit)
	if records, ok := args.Get(0).([]*entity.ExtractionRecord); ok {
		return records, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockExtractionRepository) DeleteExtraction(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)

	return args.Error(0)
}

func (m *mockExtractionRepository) CreateAnalysis(ctx context.Context, analysis *entity.AnalysisResult) error {
	args := m.Called(ctx, analysis)

	return args.Error(0)
}

func (m *mockExtractionRepository) CountStats(ctx context.Context, userID uuid.UUID) (*entity.UserStats, error) {
	args := m.Called(ctx, userID)
	if stats, ok := args.Get(0).(*entity.UserStats); ok {
		return stats, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

func (m *mockPasswordHasher) ValidatePasswordStrength(password string) error {
	args := m.Called(password)

	return args.Error(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateSessionToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.SessionClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) GenerateResetToken() (string, string, error) {
	args := m.Called()

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashResetToken(raw string) string {
	args := m.Called(raw)

	return args.String(0)
}

func (m *mockTokenService) SessionTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

func (m *mockTokenService) ResetTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPasswordResetMail(ctx context.Context, email, name, resetLink string) error {
	args := m.Called(ctx, email, name, resetLink)

	return args.Error(0)
}

type mockTextExtractor struct {
	mock.Mock
}

func (m *mockTextExtractor) ExtractText(ctx context.Context, filename string, image io.Reader) (string, error) {
	args := m.Called(ctx, filename, image)

	return args.String(0), args.Error(1)
}

type mockTextAnalyzer struct {
	mock.Mock
}

func (m *mockTextAnalyzer) Summarize(ctx context.Context, text string) (*entity.SummaryPayload, error) {
	args := m.Called(ctx, text)
	if payload, ok := args.Get(0).(*entity.SummaryPayload); ok {
		return payload, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTextAnalyzer) AnalyzeSentiment(ctx context.Context, text string) (*entity.SentimentPayload, error) {
	args := m.Called(ctx, text)
	if payload, ok := args.Get(0).(*entity.SentimentPayload); ok {
		return payload, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTextAnalyzer) AnswerQuestion(ctx context.Context, text, question string) (*entity.QuestionPayload, error) {
	args := m.Called(ctx, text, question)
	if payload, ok := args.Get(0).(*entity.QuestionPayload); ok {
		return payload, args.Error(1)
	}

	return nil, args.Error(1)
}
