package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/authgate-backend/config"
	"github.com/ikkim/authgate-backend/internal/app/controller"
	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/internal/app/service"
	"github.com/ikkim/authgate-backend/internal/db"
	"github.com/ikkim/authgate-backend/internal/middleware"
	"github.com/ikkim/authgate-backend/internal/router"
	"github.com/ikkim/authgate-backend/internal/scheduler"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"github.com/ikkim/authgate-backend/pkg/mailer"
	"github.com/ikkim/authgate-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting AuthGate Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	revokedRepo := repository.NewRevokedTokenRepository(db.GetDB())

	// Pick the revocation backend
	var blacklist service.TokenBlacklist
	if cfg.Redis.RevocationBackend == "redis" {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		blacklist = service.NewRedisBlacklist()
	} else {
		blacklist = service.NewDBBlacklist(revokedRepo)
	}

	// Initialize services
	mail := mailer.New(cfg.SMTP)
	tokenService := service.NewTokenService(blacklist, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authService := service.NewAuthService(userRepo, tokenService, mail)
	passwordResetService := service.NewPasswordResetService(userRepo, mail, cfg.Reset.TokenExpiry)

	// Initialize controllers and middleware
	authController := controller.NewAuthController(authService, passwordResetService)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Start the cleanup scheduler
	cleanup := scheduler.NewCleanupScheduler(revokedRepo, userRepo, cfg.Reset.TokenExpiry)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanup.Stop()

	// Setup router
	r := router.NewRouter(authController, authMiddleware, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
