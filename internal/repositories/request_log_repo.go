package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
)

// RequestLogRepository stores the per-IP request log backing rate limiting.
type RequestLogRepository struct {
	pool *pgxpool.Pool
}

func NewRequestLogRepository(db *database.DB) *RequestLogRepository {
	return &RequestLogRepository{pool: db.Pool}
}

// Record appends one entry for (ip, category).
func (r *RequestLogRepository) Record(ctx context.Context, entry *models.RequestLogEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO request_log (ip, category, created_at) VALUES ($1, $2, $3)`,
		entry.IP, entry.Category, entry.CreatedAt,
	)
	return database.MapPostgresError(err)
}

// CountSince counts entries for (ip, category) created at or after since.
func (r *RequestLogRepository) CountSince(ctx context.Context, ip string, category models.RouteCategory, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM request_log WHERE ip = $1 AND category = $2 AND created_at >= $3`,
		ip, category, since,
	).Scan(&count)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// DeleteOlderThan sweeps entries that fell out of the rate-limit window.
func (r *RequestLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM request_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
