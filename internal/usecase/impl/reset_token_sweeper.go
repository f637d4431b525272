package impl

import (
	"context"
	"log/slog"
	"time"

	"insightlens/internal/domain/repository"

	"go.uber.org/fx"
)

const (
	resetTokenSweepInterval = time.Hour
	resetTokenSweepTimeout  = 30 * time.Second
)

// ResetTokenSweeper periodically deletes expired password reset tokens so
// dead rows do not pile up in the table. Expired tokens are already
// unusable; the sweep is pure housekeeping.
type ResetTokenSweeper struct {
	tokenRepo repository.ResetTokenRepository
	interval  time.Duration
	logger    *slog.Logger
	stop      chan struct{}
	done      chan struct{}
}

func newResetTokenSweeper(tokenRepo repository.ResetTokenRepository, interval time.Duration, logger *slog.Logger) *ResetTokenSweeper {
	return &ResetTokenSweeper{
		tokenRepo: tokenRepo,
		interval:  interval,
		logger:    logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in the background. The first sweep runs
// immediately so a restart never postpones cleanup by a full interval.
func (s *ResetTokenSweeper) Start() {
	go s.run()
}

func (s *ResetTokenSweeper) run() {
	defer close(s.done)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *ResetTokenSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), resetTokenSweepTimeout)
	defer cancel()

	if err := s.tokenRepo.DeleteExpiredResetTokens(ctx); err != nil {
		// A failed sweep only delays cleanup; the next tick retries.
		s.logger.Error("Failed to delete expired reset tokens", slog.Any("error", err))
	}
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *ResetTokenSweeper) Stop(ctx context.Context) error {
	close(s.stop)

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ResetTokenSweeperParams holds dependencies for the sweeper, injected by Fx.
type ResetTokenSweeperParams struct {
	fx.In
	fx.Lifecycle

	TokenRepo repository.ResetTokenRepository
	Logger    *slog.Logger
}

// RunResetTokenSweeper ties the sweep loop to the application lifecycle.
func RunResetTokenSweeper(params ResetTokenSweeperParams) {
	sweeper := newResetTokenSweeper(params.TokenRepo, resetTokenSweepInterval, params.Logger)

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sweeper.Start()

			return nil
		},
		OnStop: sweeper.Stop,
	})
}
