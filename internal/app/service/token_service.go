package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/authgate-backend/internal/app/model"
	"github.com/ikkim/authgate-backend/internal/app/repository"
	"github.com/ikkim/authgate-backend/pkg/logger"
	"github.com/ikkim/authgate-backend/pkg/redis"
	"github.com/ikkim/authgate-backend/pkg/util"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenBlacklist is the revocation set behind TokenService. Entries only
// need to live until the revoked token's own expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// TokenService issues and verifies session tokens. A token verifies only
// if its signature is valid, it has not expired, and it has not been
// revoked; the three failure causes keep distinct errors for logging even
// though callers surface them identically.
type TokenService interface {
	Issue(user *model.User) (string, error)
	Verify(ctx context.Context, token string) (*util.Claims, error)
	Revoke(ctx context.Context, token string) error
}

type tokenService struct {
	blacklist TokenBlacklist
	secret    string
	expiry    time.Duration
}

func NewTokenService(blacklist TokenBlacklist, secret string, expiry time.Duration) TokenService {
	return &tokenService{
		blacklist: blacklist,
		secret:    secret,
		expiry:    expiry,
	}
}

func (s *tokenService) Issue(user *model.User) (string, error) {
	token, err := util.GenerateToken(user.ID, user.Email, s.secret, s.expiry)
	if err != nil {
		logger.Error("Failed to issue session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}
	return token, nil
}

func (s *tokenService) Verify(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.secret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		logger.Error("Failed to check token revocation", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, err
	}
	if revoked {
		logger.Warn("Rejected revoked session token", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

func (s *tokenService) Revoke(ctx context.Context, token string) error {
	// Signature must verify, but an expired token is still accepted here:
	// revoking it is harmless and keeps logout idempotent.
	claims, err := util.ParseToken(token, s.secret)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.blacklist.Revoke(ctx, token, claims.ExpiresAt.Time); err != nil {
		logger.Error("Failed to revoke session token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("Session token revoked", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

// dbBlacklist keeps revocations in the relational store.
type dbBlacklist struct {
	repo repository.RevokedTokenRepository
}

func NewDBBlacklist(repo repository.RevokedTokenRepository) TokenBlacklist {
	return &dbBlacklist{repo: repo}
}

func (b *dbBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	return b.repo.Add(token, expiresAt)
}

func (b *dbBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return b.repo.Exists(token)
}

// redisBlacklist keeps revocations in Redis with a TTL equal to the
// remaining token lifetime, so entries vanish on their own.
type redisBlacklist struct{}

func NewRedisBlacklist() TokenBlacklist {
	return &redisBlacklist{}
}

func (b *redisBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	return redis.BlacklistToken(ctx, token, time.Until(expiresAt))
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return redis.IsTokenBlacklisted(ctx, token)
}
