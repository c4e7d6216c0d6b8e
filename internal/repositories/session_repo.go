package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
)

// SessionRepository owns the two tables that make up refresh-session state:
// device_sessions and refresh_token_blacklist.
type SessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const upsertSessionQuery = `
	INSERT INTO device_sessions (user_id, device_id, ip, user_agent_title, last_active_date, expiration_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, device_id) DO UPDATE
	SET ip = EXCLUDED.ip,
		user_agent_title = EXCLUDED.user_agent_title,
		last_active_date = EXCLUDED.last_active_date,
		expiration_date = EXCLUDED.expiration_date
`

// UpsertSession creates or refreshes the (userId, deviceId) session row.
func (r *SessionRepository) UpsertSession(ctx context.Context, s *models.DeviceSession) error {
	_, err := r.db.Pool.Exec(ctx, upsertSessionQuery,
		s.UserID, s.DeviceID, s.IP, s.UserAgentTitle, s.LastActiveDate, s.ExpirationDate,
	)
	return database.MapPostgresError(err)
}

// IsBlacklisted reports whether a refresh token was already consumed.
func (r *SessionRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM refresh_token_blacklist WHERE token = $1)`, token,
	).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// ConsumeAndUpsert blacklists a spent refresh token and writes the rotated
// session row in one transaction, so a crash can never leave a reusable
// token behind a refreshed session.
func (r *SessionRepository) ConsumeAndUpsert(ctx context.Context, spent *models.BlacklistedToken, session *models.DeviceSession) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO refresh_token_blacklist (token, user_id, expires_at) VALUES ($1, $2, $3)`,
			spent.Token, spent.UserID, spent.ExpiresAt,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		_, err = tx.Exec(ctx, upsertSessionQuery,
			session.UserID, session.DeviceID, session.IP, session.UserAgentTitle,
			session.LastActiveDate, session.ExpirationDate,
		)
		return database.MapPostgresError(err)
	})
}

// ConsumeAndDelete blacklists the token and removes the session row (logout).
func (r *SessionRepository) ConsumeAndDelete(ctx context.Context, spent *models.BlacklistedToken, deviceID string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO refresh_token_blacklist (token, user_id, expires_at) VALUES ($1, $2, $3)`,
			spent.Token, spent.UserID, spent.ExpiresAt,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM device_sessions WHERE user_id = $1 AND device_id = $2`,
			spent.UserID, deviceID,
		)
		return database.MapPostgresError(err)
	})
}

// FindByUserID lists a user's active sessions, most recently active first.
func (r *SessionRepository) FindByUserID(ctx context.Context, userID string) ([]models.DeviceSession, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT user_id, device_id, ip, user_agent_title, last_active_date, expiration_date
		FROM device_sessions WHERE user_id = $1
		ORDER BY last_active_date DESC
	`, userID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	sessions := make([]models.DeviceSession, 0)
	for rows.Next() {
		var s models.DeviceSession
		err := rows.Scan(&s.UserID, &s.DeviceID, &s.IP, &s.UserAgentTitle, &s.LastActiveDate, &s.ExpirationDate)
		if err != nil {
			return nil, database.MapPostgresError(err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// GetByDeviceID fetches a session row by its deviceId alone, for ownership
// checks before termination.
func (r *SessionRepository) GetByDeviceID(ctx context.Context, deviceID string) (*models.DeviceSession, error) {
	var s models.DeviceSession
	err := r.db.Pool.QueryRow(ctx, `
		SELECT user_id, device_id, ip, user_agent_title, last_active_date, expiration_date
		FROM device_sessions WHERE device_id = $1
	`, deviceID).Scan(&s.UserID, &s.DeviceID, &s.IP, &s.UserAgentTitle, &s.LastActiveDate, &s.ExpirationDate)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &s, nil
}

// DeleteSession removes a single device session.
func (r *SessionRepository) DeleteSession(ctx context.Context, userID, deviceID string) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM device_sessions WHERE user_id = $1 AND device_id = $2`,
		userID, deviceID,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteOtherSessions removes every session for the user except the given
// device.
func (r *SessionRepository) DeleteOtherSessions(ctx context.Context, userID, keepDeviceID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM device_sessions WHERE user_id = $1 AND device_id <> $2`,
		userID, keepDeviceID,
	)
	return database.MapPostgresError(err)
}

// DeleteExpiredSessions sweeps device sessions past their expiration date.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM device_sessions WHERE expiration_date < $1`, time.Now(),
	)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpiredBlacklisted sweeps blacklist rows whose tokens could no longer
// verify anyway.
func (r *SessionRepository) DeleteExpiredBlacklisted(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM refresh_token_blacklist WHERE expires_at < $1`, time.Now(),
	)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
