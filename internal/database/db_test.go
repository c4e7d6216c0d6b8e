package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ovoronin/bloghub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPostgresError(t *testing.T) {
	assert.NoError(t, MapPostgresError(nil))
	assert.ErrorIs(t, MapPostgresError(pgx.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, MapPostgresError(&pgconn.PgError{Code: "23503"}), models.ErrBadRequest)
	assert.ErrorIs(t, MapPostgresError(&pgconn.PgError{Code: "23502"}), models.ErrBadRequest)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapPostgresError(plain))
}

func TestMapPostgresError_UniqueViolationKeepsConstraint(t *testing.T) {
	err := MapPostgresError(&pgconn.PgError{Code: "23505", ConstraintName: "user_accounts_email_key"})

	assert.ErrorIs(t, err, models.ErrConflict)

	constraint, ok := ConflictConstraint(err)
	require.True(t, ok)
	assert.Equal(t, "user_accounts_email_key", constraint)

	_, ok = ConflictConstraint(models.ErrConflict)
	assert.False(t, ok)
}
