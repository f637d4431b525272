package impl

import (
	"io"
	"log/slog"
	"time"

	"insightlens/config"
)

const testResetTTL = time.Hour

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
		Mail: &config.MailConfig{
			Domain:      "mail.example.com",
			Sender:      "no-reply@example.com",
			FrontendURL: "https://app.example.com",
		},
		Upload: &config.UploadConfig{MaxSizeBytes: 10 << 20},
	}

	return cfg
}

type authFixtures struct {
	txManager      *mockTransactionManager
	userRepo       *mockUserRepository
	resetTokenRepo *mockResetTokenRepository
	hasher         *mockPasswordHasher
	tokenService   *mockTokenService
	mailer         *mockMailer
}

func newAuthService() (*authService, *authFixtures) {
	f := &authFixtures{
		userRepo:       &mockUserRepository{},
		resetTokenRepo: &mockResetTokenRepository{},
		hasher:         &mockPasswordHasher{},
		tokenService:   &mockTokenService{},
		mailer:         &mockMailer{},
	}
	f.txManager = &mockTransactionManager{factory: &mockRepositoryFactory{
		userRepo:       f.userRepo,
		resetTokenRepo: f.resetTokenRepo,
	}}

	srv := NewAuthService(AuthServiceParams{
		TxManager:    f.txManager,
		UserRepo:     f.userRepo,
		Hasher:       f.hasher,
		TokenService: f.tokenService,
		Mailer:       f.mailer,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return srv.(*authService), f
}

type extractionFixtures struct {
	txManager      *mockTransactionManager
	extractionRepo *mockExtractionRepository
	extractor      *mockTextExtractor
	analyzer       *mockTextAnalyzer
}

func newExtractionService() (*extractionService, *extractionFixtures) {
	f := &extractionFixtures{
		extractionRepo: &mockExtractionRepository{},
		extractor:      &mockTextExtractor{},
		analyzer:       &mockTextAnalyzer{},
	}
	f.txManager = &mockTransactionManager{factory: &mockRepositoryFactory{
		extractionRepo: f.extractionRepo,
	}}

	srv := NewExtractionService(ExtractionServiceParams{
		TxManager:      f.txManager,
		ExtractionRepo: f.extractionRepo,
		Extractor:      f.extractor,
		Analyzer:       f.analyzer,
		Config:         newTestConfig(),
		Logger:         newDiscardLogger(),
	})

	return srv.(*extractionService), f
}

type userDataFixtures struct {
	txManager      *mockTransactionManager
	extractionRepo *mockExtractionRepository
}

func newUserDataService() (*userDataService, *userDataFixtures) {
	f := &userDataFixtures{
		extractionRepo: &mockExtractionRepository{},
	}
	f.txManager = &mockTransactionManager{factory: &mockRepositoryFactory{
		extractionRepo: f.extractionRepo,
	}}

	srv := NewUserDataService(UserDataServiceParams{
		TxManager:      f.txManager,
		ExtractionRepo: f.extractionRepo,
		Config:         newTestConfig(),
		Logger:         newDiscardLogger(),
	})

	return srv.(*userDataService), f
}
