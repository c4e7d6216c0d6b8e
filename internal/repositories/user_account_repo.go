package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ovoronin/bloghub/internal/database"
	"github.com/ovoronin/bloghub/internal/models"
)

type UserAccountRepository struct {
	pool *pgxpool.Pool
}

func NewUserAccountRepository(db *database.DB) *UserAccountRepository {
	return &UserAccountRepository{pool: db.Pool}
}

const userAccountColumns = `
	id, login, email, password_hash, created_at, registration_ip,
	confirmation_code, confirmation_expires_at, is_confirmed, sent_email_log,
	recovery_code, recovery_expires_at`

// rowScanner lets scanAccountRow handle both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(scanner rowScanner) (*models.UserAccount, error) {
	var a models.UserAccount

	err := scanner.Scan(
		&a.ID, &a.Login, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.RegistrationIP,
		&a.EmailConfirmation.ConfirmationCode, &a.EmailConfirmation.ExpirationDate,
		&a.EmailConfirmation.IsConfirmed, &a.EmailConfirmation.SentEmailLog,
		&a.RecoveryCode, &a.RecoveryExpiresAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &a, nil
}

func userSortColumn(sortBy string) string {
	switch sortBy {
	case "login":
		return "login"
	case "email":
		return "email"
	default:
		return "created_at"
	}
}

// Find returns one page of accounts matching either the login or the email
// substring (both empty = all accounts).
func (r *UserAccountRepository) Find(ctx context.Context, q models.PageQuery, loginTerm, emailTerm string) ([]*models.UserAccount, int, error) {
	loginFilter := "%" + loginTerm + "%"
	emailFilter := "%" + emailTerm + "%"

	query := fmt.Sprintf(`
		SELECT %s FROM user_accounts
		WHERE login ILIKE $1 OR email ILIKE $2
		ORDER BY %s %s LIMIT $3 OFFSET $4
	`, userAccountColumns, userSortColumn(q.SortBy), sortOrder(q.SortDirection))

	rows, err := r.pool.Query(ctx, query, loginFilter, emailFilter, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query user accounts: %w", err)
	}

	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, 0, err
	}

	var totalCount int
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_accounts WHERE login ILIKE $1 OR email ILIKE $2`,
		loginFilter, emailFilter,
	).Scan(&totalCount)
	if err != nil {
		return nil, 0, database.MapPostgresError(err)
	}

	return accounts, totalCount, nil
}

func scanAccountRows(rows pgx.Rows) ([]*models.UserAccount, error) {
	defer rows.Close()

	accounts := make([]*models.UserAccount, 0)
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

func (r *UserAccountRepository) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE id = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserAccountRepository) GetByLogin(ctx context.Context, login string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE login = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, login))
}

func (r *UserAccountRepository) GetByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE email = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, email))
}

// GetByLoginOrEmail resolves the login form's single identity field.
func (r *UserAccountRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE login = $1 OR email = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, loginOrEmail))
}

func (r *UserAccountRepository) GetByConfirmationCode(ctx context.Context, code string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE confirmation_code = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, code))
}

func (r *UserAccountRepository) GetByRecoveryCode(ctx context.Context, code string) (*models.UserAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_accounts WHERE recovery_code = $1`, userAccountColumns)
	return scanAccountRow(r.pool.QueryRow(ctx, query, code))
}

func (r *UserAccountRepository) Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error) {
	account.ID = uuid.New().String()
	account.CreatedAt = time.Now()

	query := `
		INSERT INTO user_accounts (
			id, login, email, password_hash, created_at, registration_ip,
			confirmation_code, confirmation_expires_at, is_confirmed, sent_email_log
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Login, account.Email, account.PasswordHash,
		account.CreatedAt, account.RegistrationIP,
		account.EmailConfirmation.ConfirmationCode,
		account.EmailConfirmation.ExpirationDate,
		account.EmailConfirmation.IsConfirmed,
		account.EmailConfirmation.SentEmailLog,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return account, nil
}

// Confirm flips is_confirmed exactly once: the WHERE clause refuses already
// confirmed rows, so a second confirmation attempt reports not found.
func (r *UserAccountRepository) Confirm(ctx context.Context, id string) error {
	query := `UPDATE user_accounts SET is_confirmed = TRUE WHERE id = $1 AND is_confirmed = FALSE`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrAlreadyConfirmed
	}

	return nil
}

// RotateConfirmationCode installs a fresh code and expiry, and appends the
// send timestamp to the sent email log.
func (r *UserAccountRepository) RotateConfirmationCode(ctx context.Context, id, code string, expiresAt, sentAt time.Time) error {
	query := `
		UPDATE user_accounts
		SET confirmation_code = $1, confirmation_expires_at = $2,
			sent_email_log = array_append(sent_email_log, $3::timestamptz)
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, code, expiresAt, sentAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *UserAccountRepository) SetRecoveryCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `UPDATE user_accounts SET recovery_code = $1, recovery_expires_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, code, expiresAt, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdatePassword installs a new hash and burns the recovery code.
func (r *UserAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE user_accounts
		SET password_hash = $1, recovery_code = NULL, recovery_expires_at = NULL
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *UserAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM user_accounts WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteUnconfirmedBefore sweeps accounts that never confirmed within the TTL.
func (r *UserAccountRepository) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM user_accounts WHERE is_confirmed = FALSE AND created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}
