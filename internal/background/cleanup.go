package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/ovoronin/bloghub/internal/repositories"
	"github.com/ovoronin/bloghub/internal/services"
)

// CleanupManager runs the periodic sweeps: the request-log window sweep on a
// short cadence, and the expiry sweeps (device sessions, blacklist rows,
// stale unconfirmed accounts) on a long one.
type CleanupManager struct {
	rateLimiter    *services.RateLimitService
	sessionRepo    *repositories.SessionRepository
	userRepo       *repositories.UserAccountRepository
	logger         *slog.Logger
	sweepInterval  time.Duration
	expiryInterval time.Duration
	unconfirmedTTL time.Duration
	stopCh         chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	rateLimiter *services.RateLimitService,
	sessionRepo *repositories.SessionRepository,
	userRepo *repositories.UserAccountRepository,
	logger *slog.Logger,
	sweepInterval time.Duration,
	expiryInterval time.Duration,
	unconfirmedTTL time.Duration,
) *CleanupManager {
	return &CleanupManager{
		rateLimiter:    rateLimiter,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		logger:         logger,
		sweepInterval:  sweepInterval,
		expiryInterval: expiryInterval,
		unconfirmedTTL: unconfirmedTTL,
		stopCh:         make(chan struct{}),
	}
}

// Start begins the periodic cleanup tasks. Both sweeps run once immediately.
func (cm *CleanupManager) Start(ctx context.Context) {
	requestLogTicker := time.NewTicker(cm.sweepInterval)
	defer requestLogTicker.Stop()

	expiryTicker := time.NewTicker(cm.expiryInterval)
	defer expiryTicker.Stop()

	cm.sweepRequestLog(ctx)
	cm.sweepExpired(ctx)

	for {
		select {
		case <-requestLogTicker.C:
			cm.sweepRequestLog(ctx)
		case <-expiryTicker.C:
			cm.sweepExpired(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// sweepRequestLog trims rate-limit log entries older than the counting window.
func (cm *CleanupManager) sweepRequestLog(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.rateLimiter.Sweep(sweepCtx)
	if err != nil {
		cm.logger.Error("failed to sweep request log", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Debug("request log swept", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// sweepExpired removes expired device sessions, spent blacklist rows whose
// tokens could no longer verify, and unconfirmed accounts past their TTL.
func (cm *CleanupManager) sweepExpired(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sessions, err := cm.sessionRepo.DeleteExpiredSessions(sweepCtx)
	if err != nil {
		cm.logger.Error("failed to sweep expired sessions", slog.Any("error", err))
	}

	blacklisted, err := cm.sessionRepo.DeleteExpiredBlacklisted(sweepCtx)
	if err != nil {
		cm.logger.Error("failed to sweep expired blacklist rows", slog.Any("error", err))
	}

	unconfirmed, err := cm.userRepo.DeleteUnconfirmedBefore(sweepCtx, time.Now().Add(-cm.unconfirmedTTL))
	if err != nil {
		cm.logger.Error("failed to sweep unconfirmed accounts", slog.Any("error", err))
	}

	if sessions > 0 || blacklisted > 0 || unconfirmed > 0 {
		cm.logger.Info("expiry sweep completed",
			slog.Int64("sessions_deleted", sessions),
			slog.Int64("blacklist_deleted", blacklisted),
			slog.Int64("unconfirmed_deleted", unconfirmed),
		)
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
