package scheduler

import (
	"time"

	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupScheduler prunes authentication state that has aged out: revoked
// session tokens past their natural expiry (verification rejects expired
// tokens anyway) and pending reset tokens older than the reset window.
type CleanupScheduler struct {
	cron        *cron.Cron
	revokedRepo repository.RevokedTokenRepository
	userRepo    repository.UserRepository
	resetExpiry time.Duration
}

func NewCleanupScheduler(
	revokedRepo repository.RevokedTokenRepository,
	userRepo repository.UserRepository,
	resetExpiry time.Duration,
) *CleanupScheduler {
	return &CleanupScheduler{
		cron:        cron.New(),
		revokedRepo: revokedRepo,
		userRepo:    userRepo,
		resetExpiry: resetExpiry,
	}
}

// Start registers the hourly cleanup job
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		logger.Info("Starting scheduled auth cleanup", nil)

		revoked, err := s.revokedRepo.DeleteExpired()
		if err != nil {
			logger.Error("Failed to prune expired revoked tokens", err)
		}

		resets, err := s.userRepo.ClearExpiredResetTokens(time.Now().Add(-s.resetExpiry))
		if err != nil {
			logger.Error("Failed to clear expired reset tokens", err)
		}

		logger.Info("Auth cleanup finished", map[string]interface{}{
			"revoked_tokens_pruned": revoked,
			"reset_tokens_cleared":  resets,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for auth cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Auth cleanup scheduler started (hourly)", nil)

	return nil
}

// Stop stops the scheduler
func (s *CleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
