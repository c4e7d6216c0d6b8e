package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ovoronin/bloghub/internal/models"
)

func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &uniqueViolationError{constraint: pgErr.ConstraintName}
		case "23503": // foreign_key_violation
			return models.ErrBadRequest
		case "23502": // not_null_violation
			return models.ErrBadRequest
		}
	}

	return err
}

// uniqueViolationError matches models.ErrConflict through errors.Is while
// preserving which unique constraint fired, so callers can name the field.
type uniqueViolationError struct {
	constraint string
}

func (e *uniqueViolationError) Error() string {
	return models.ErrConflict.Error() + ": " + e.constraint
}

func (e *uniqueViolationError) Is(target error) bool {
	return target == models.ErrConflict
}

// ConflictConstraint reports the unique constraint behind a conflict error.
func ConflictConstraint(err error) (string, bool) {
	var uv *uniqueViolationError
	if errors.As(err, &uv) {
		return uv.constraint, true
	}
	return "", false
}

// WithTransaction runs fn inside a transaction, rolling back on error or panic.
// Used where a refresh-token consume and the matching session write must land
// together.
func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
