package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ovoronin/bloghub/internal/config"
	"github.com/ovoronin/bloghub/internal/models"
)

// RequestLogRepository defines the interface for rate-limit log operations
type RequestLogRepository interface {
	Record(ctx context.Context, entry *models.RequestLogEntry) error
	CountSince(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RateLimitService bounds repeated requests per source address within a
// trailing window. Counts reset naturally as entries age out of the window;
// the sweep only bounds table growth.
type RateLimitService struct {
	repo   RequestLogRepository
	cfg    config.RateLimitConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewRateLimitService(repo RequestLogRepository, cfg config.RateLimitConfig, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// RecordAndCount appends a log entry for (ip, category) and returns the number
// of entries within the trailing window, including the one just written.
func (s *RateLimitService) RecordAndCount(ctx context.Context, ip string, category models.RouteCategory) (int, error) {
	now := s.now()

	err := s.repo.Record(ctx, &models.RequestLogEntry{IP: ip, Category: category, CreatedAt: now})
	if err != nil {
		return 0, err
	}

	return s.repo.CountSince(ctx, ip, category, now.Add(-s.cfg.Window))
}

// Allow records the request and rejects it once the category's ceiling is
// exceeded. A repository failure fails open: availability over strictness
// for advisory data.
func (s *RateLimitService) Allow(ctx context.Context, ip string, category models.RouteCategory) error {
	count, err := s.RecordAndCount(ctx, ip, category)
	if err != nil {
		s.logger.Error("rate limit check failed",
			slog.String("ip", ip),
			slog.String("category", string(category)),
			slog.Any("error", err))
		return nil
	}

	if count > s.ceiling(category) {
		s.logger.Warn("rate limit exceeded",
			slog.String("ip", ip),
			slog.String("category", string(category)),
			slog.Int("count", count))
		return models.ErrRateLimited
	}

	return nil
}

func (s *RateLimitService) ceiling(category models.RouteCategory) int {
	switch category {
	case models.CategoryLogin:
		return s.cfg.MaxLoginAttempts
	case models.CategoryRegistration:
		return s.cfg.MaxRegistrationAttempts
	case models.CategoryConfirmation:
		return s.cfg.MaxConfirmationAttempts
	case models.CategoryEmailResending:
		return s.cfg.MaxEmailResendAttempts
	case models.CategoryPasswordRecovery:
		return s.cfg.MaxRecoveryAttempts
	case models.CategoryNewPassword:
		return s.cfg.MaxNewPasswordAttempts
	default:
		return s.cfg.MaxLoginAttempts
	}
}

// Sweep deletes entries older than the window. Window and sweep cadence are
// independent settings; the count queries stay correct either way.
func (s *RateLimitService) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, s.now().Add(-s.cfg.Window))
}
