package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ovoronin/bloghub/internal/config"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimitService(repo RequestLogRepository) *RateLimitService {
	return NewRateLimitService(repo, config.RateLimitConfig{
		Window:                  10 * time.Second,
		MaxLoginAttempts:        5,
		MaxRegistrationAttempts: 5,
		MaxConfirmationAttempts: 5,
		MaxEmailResendAttempts:  5,
		MaxRecoveryAttempts:     5,
		MaxNewPasswordAttempts:  5,
	}, slog.Default())
}

func TestRateLimitService_Allow_UnderCeiling(t *testing.T) {
	recorded := 0
	repo := &MockRequestLogRepository{
		RecordFunc: func(ctx context.Context, entry *models.RequestLogEntry) error {
			recorded++
			return nil
		},
		CountSinceFunc: func(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error) {
			return recorded, nil
		},
	}

	svc := newTestRateLimitService(repo)

	for i := 0; i < 5; i++ {
		assert.NoError(t, svc.Allow(context.Background(), "10.0.0.1", models.CategoryLogin))
	}
}

func TestRateLimitService_Allow_OverCeiling(t *testing.T) {
	repo := &MockRequestLogRepository{
		CountSinceFunc: func(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error) {
			return 6, nil
		},
	}

	svc := newTestRateLimitService(repo)

	err := svc.Allow(context.Background(), "10.0.0.1", models.CategoryLogin)

	assert.ErrorIs(t, err, models.ErrRateLimited)
}

func TestRateLimitService_Allow_CountWindowUsesConfig(t *testing.T) {
	var since time.Time
	repo := &MockRequestLogRepository{
		CountSinceFunc: func(ctx context.Context, ip string, category models.RouteCategory, s time.Time) (int, error) {
			since = s
			return 1, nil
		},
	}

	svc := newTestRateLimitService(repo)

	require.NoError(t, svc.Allow(context.Background(), "10.0.0.1", models.CategoryRegistration))
	assert.WithinDuration(t, time.Now().Add(-10*time.Second), since, time.Second)
}

func TestRateLimitService_Allow_FailsOpenOnRepoError(t *testing.T) {
	repo := &MockRequestLogRepository{
		RecordFunc: func(ctx context.Context, entry *models.RequestLogEntry) error {
			return errors.New("db down")
		},
	}

	svc := newTestRateLimitService(repo)

	assert.NoError(t, svc.Allow(context.Background(), "10.0.0.1", models.CategoryLogin))
}

func TestRateLimitService_Sweep_DeletesBeforeWindow(t *testing.T) {
	var cutoff time.Time
	repo := &MockRequestLogRepository{
		DeleteOlderThanFunc: func(ctx context.Context, c time.Time) (int64, error) {
			cutoff = c
			return 3, nil
		},
	}

	svc := newTestRateLimitService(repo)

	deleted, err := svc.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.WithinDuration(t, time.Now().Add(-10*time.Second), cutoff, time.Second)
}
