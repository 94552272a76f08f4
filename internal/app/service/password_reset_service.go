package service

import (
	"errors"
	"time"

	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"github.com/ikkim/authgate-backend/pkg/mailer"
	"github.com/ikkim/authgate-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrInvalidResetToken covers unknown, expired, and already consumed
// tokens alike; callers must not be able to tell them apart.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ResetTokenLength is the entropy of the reset token in bytes
const ResetTokenLength = 32

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	mail        mailer.Mailer
	tokenExpiry time.Duration
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	mail mailer.Mailer,
	tokenExpiry time.Duration,
) PasswordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		mail:        mail,
		tokenExpiry: tokenExpiry,
	}
}

// RequestReset issues a single-use reset token and hands it to the mailer.
// The outcome is identical whether or not the email is registered, so the
// endpoint cannot be used to enumerate accounts.
func (s *passwordResetService) RequestReset(email string) error {
	email = normalizeEmail(email)

	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := util.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	// A new request replaces any pending token for the account
	if err := s.userRepo.SetResetToken(user.ID, token, time.Now()); err != nil {
		logger.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	// Delivery is fire-and-forget; the request never waits on the mailer
	go func() {
		_ = s.mail.SendPasswordResetEmail(user.Email, token)
	}()

	logger.Info("Password reset token issued", map[string]interface{}{
		"user_id":    user.ID,
		"expires_in": s.tokenExpiry.String(),
	})

	return nil
}

// ResetPassword consumes a reset token. The check-and-clear runs as one
// guarded UPDATE, so a token is consumed at most once even under
// concurrent attempts.
func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset with token")

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, nil)
		return err
	}

	cutoff := time.Now().Add(-s.tokenExpiry)
	rows, err := s.userRepo.ConsumeResetToken(token, hashedPassword, cutoff)
	if err != nil {
		logger.Error("Failed to consume reset token", err, nil)
		return err
	}
	if rows == 0 {
		logger.Warn("Invalid, expired or already used reset token", nil)
		return ErrInvalidResetToken
	}

	logger.Info("Password reset successful")
	return nil
}
