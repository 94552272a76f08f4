package db

import (
	"fmt"

	"github.com/ikkim/authgate-backend/internal/app/model"
	"github.com/ikkim/authgate-backend/pkg/logger"
)

// Migrate brings the schema up to date. The unique indexes on users.email
// and users.reset_token are what serialize concurrent registrations and
// reset consumptions; they come from the model tags.
func Migrate() error {
	logger.Info("Running database migrations", nil)

	err := DB.AutoMigrate(
		&model.User{},
		&model.RevokedToken{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed successfully", nil)
	return nil
}
