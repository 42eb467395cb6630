package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "($1, $2), ($3, $4)", Placeholders(2, 2))
	assert.Equal(t, "($1)", Placeholders(1, 1))
	assert.Equal(t, "", Placeholders(0, 3))
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "bookings_offer_id_key"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.Equal(t, "bookings_offer_id_key", ConstraintName(dup))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestWithTransaction(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t \\(a, b\\) VALUES \\(\\$1, \\$2\\), \\(\\$3, \\$4\\)").
		WithArgs(1, "x", 2, "y").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err = WithTransaction(context.Background(), db, func(tx *sqlx.Tx) error {
		bi := NewBatchInserter(tx, "INSERT INTO t (a, b)", 2, 10)
		if err := bi.Add(context.Background(), 1, "x"); err != nil {
			return err
		}
		if err := bi.Add(context.Background(), 2, "y"); err != nil {
			return err
		}
		return bi.Flush(context.Background())
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	err = WithTransaction(context.Background(), db, func(tx *sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
