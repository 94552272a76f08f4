package repository

import (
	"time"

	"github.com/ikkim/authgate-backend/internal/app/model"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RevokedTokenRepository interface {
	// Add records a revocation. Inserting a token that is already revoked
	// is a no-op, not an error.
	Add(token string, expiresAt time.Time) error
	Exists(token string) (bool, error)
	DeleteExpired() (int64, error)
}

type revokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) Add(token string, expiresAt time.Time) error {
	logger.Debug("Adding token to revocation list", map[string]interface{}{
		"expires_at": expiresAt,
	})

	revoked := &model.RevokedToken{
		Token:     token,
		ExpiresAt: expiresAt,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoNothing: true,
	}).Create(revoked).Error
	if err != nil {
		logger.Error("Failed to add token to revocation list", err, nil)
		return err
	}

	return nil
}

func (r *revokedTokenRepository) Exists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&model.RevokedToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check revocation list", err, nil)
		return false, err
	}
	return count > 0, nil
}

func (r *revokedTokenRepository) DeleteExpired() (int64, error) {
	logger.Debug("Deleting expired revoked tokens from database", nil)

	result := r.db.Where("expires_at < ?", time.Now()).Delete(&model.RevokedToken{})
	if result.Error != nil {
		logger.Error("Failed to delete expired revoked tokens", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired revoked tokens deleted", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
