package repository

import (
	"time"

	"github.com/ikkim/authgate-backend/internal/app/model"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	SetResetToken(userID uint, token string, requestedAt time.Time) error
	// ConsumeResetToken atomically sets the new password hash and clears the
	// reset token, guarded by the token still being present and younger than
	// cutoff. Returns the number of rows updated: 1 when the token was
	// consumed, 0 when it was unknown, expired, or already consumed.
	ConsumeResetToken(token, newPasswordHash string, cutoff time.Time) (int64, error)
	// ClearExpiredResetTokens drops pending reset tokens issued before cutoff.
	ClearExpiredResetTokens(cutoff time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		logger.Error("Failed to find user by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return err
	}

	return nil
}

func (r *userRepository) SetResetToken(userID uint, token string, requestedAt time.Time) error {
	logger.Debug("Storing reset token in database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_requested_at": requestedAt,
		}).Error
	if err != nil {
		logger.Error("Failed to store reset token in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	return nil
}

func (r *userRepository) ConsumeResetToken(token, newPasswordHash string, cutoff time.Time) (int64, error) {
	logger.Debug("Consuming reset token in database", nil)

	// Single guarded UPDATE so the validity check and the clear are one
	// atomic statement; of two concurrent consumers exactly one sees a row.
	result := r.db.Model(&model.User{}).
		Where("reset_token = ? AND reset_requested_at > ?", token, cutoff).
		Updates(map[string]interface{}{
			"password_hash":      newPasswordHash,
			"reset_token":        nil,
			"reset_requested_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to consume reset token in database", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Reset token consume attempted", map[string]interface{}{
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *userRepository) ClearExpiredResetTokens(cutoff time.Time) (int64, error) {
	logger.Debug("Clearing expired reset tokens in database", nil)

	result := r.db.Model(&model.User{}).
		Where("reset_token IS NOT NULL AND reset_requested_at < ?", cutoff).
		Updates(map[string]interface{}{
			"reset_token":        nil,
			"reset_requested_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired reset tokens", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired reset tokens cleared", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
