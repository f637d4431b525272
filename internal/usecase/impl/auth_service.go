// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"insightlens/config"
	deliverycontext "insightlens/internal/delivery/context"
	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/repository"
	"insightlens/internal/domain/service"
	"insightlens/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyBcryptHash is compared against when login hits an unknown email, so
// the request costs the same as a real password check.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	mailer       service.Mailer
	frontendURL  string
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Mailer       service.Mailer
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	frontendURL := ""
	if params.Config != nil && params.Config.Mail != nil {
		frontendURL = strings.TrimRight(params.Config.Mail.FrontendURL, "/")
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		mailer:       params.Mailer,
		frontendURL:  frontendURL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process and logs
// the new account in.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.SessionOutput, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if email == "" || name == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("name and email are required")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	srv.log(ctx).Info("Registering new account", slog.String("email", email))

	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	// Registration doubles as the first login, so the caller walks away
	// with a usable session token.
	token, err := srv.tokenService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Info("Account registered", slog.String("userID", user.ID.String()))

	return &usecase.SessionOutput{Token: token, User: user}, nil
}

// Login verifies credentials and issues a fresh session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a hash comparison so unknown emails are not
			// distinguishable by response time.
			srv.hasher.Check(input.Password, dummyBcryptHash)

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.String("email", email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Info("Login succeeded", slog.String("userID", user.ID.String()))

	return &usecase.SessionOutput{Token: token, User: user}, nil
}

// GetMe returns the profile of the authenticated user.
func (srv *authService) GetMe(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// Refresh issues a fresh session token for an already authenticated user.
func (srv *authService) Refresh(ctx context.Context, userID uuid.UUID) (*usecase.SessionOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	token, err := srv.tokenService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	return &usecase.SessionOutput{Token: token, User: user}, nil
}

// ForgotPassword starts the reset flow. The response never reveals whether
// the address belongs to an account.
func (srv *authService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) error {
	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	rawToken, tokenHash, err := srv.tokenService.GenerateResetToken()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	resetToken := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(srv.tokenService.ResetTokenDuration()),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		tokenRepo := repoFactory.ResetTokenRepo()

		// Only the newest outstanding token stays valid.
		if err := tokenRepo.InvalidateResetTokensByUserID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to invalidate previous reset tokens")
		}

		return tokenRepo.CreateResetToken(ctx, resetToken)
	})
	if err != nil {
		return err
	}

	resetLink := srv.buildResetLink(rawToken, user.Email)
	if err := srv.mailer.SendPasswordResetMail(ctx, user.Email, user.Name, resetLink); err != nil {
		// The token row exists either way; a mail hiccup must not leak
		// account existence through the response.
		srv.log(ctx).Error("Failed to send password reset mail",
			slog.String("userID", user.ID.String()), slog.Any("error", err))
	}

	srv.log(ctx).Info("Password reset issued", slog.String("userID", user.ID.String()))

	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	if strings.TrimSpace(input.Token) == "" {
		return domainerrors.ErrInvalidOrExpiredToken
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	tokenHash := srv.tokenService.HashResetToken(input.Token)

	var userID uuid.UUID
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		consumed, err := repoFactory.ResetTokenRepo().ConsumeResetToken(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrResetTokenNotFound) || errors.Is(err, repository.ErrResetTokenConsumed) {
				return domainerrors.ErrInvalidOrExpiredToken
			}

			return errors.Wrap(err, "failed to consume reset token")
		}

		userID = consumed.UserID

		user, err := repoFactory.UserRepo().FindByID(ctx, consumed.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidOrExpiredToken
			}

			return errors.Wrap(err, "failed to load account for reset token")
		}

		// The mailed link carries the address alongside the token. A
		// mismatch rolls the consumption back, so the token stays valid
		// for its rightful owner.
		if user.Email != normalizeEmail(input.Email) {
			return domainerrors.ErrInvalidOrExpiredToken
		}

		if err := repoFactory.UserRepo().UpdatePasswordHash(ctx, consumed.UserID, passwordHash); err != nil {
			return errors.Wrap(err, "failed to update password hash")
		}

		// Any sibling tokens issued earlier die with this one.
		return repoFactory.ResetTokenRepo().InvalidateResetTokensByUserID(ctx, consumed.UserID)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Password reset completed", slog.String("userID", userID.String()))

	return nil
}

// buildResetLink assembles the frontend URL the reset mail points at.
func (srv *authService) buildResetLink(rawToken, email string) string {
	query := url.Values{}
	query.Set("token", rawToken)
	query.Set("email", email)

	return srv.frontendURL + "/reset-password?" + query.Encode()
}

// normalizeEmail lowercases and trims an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
