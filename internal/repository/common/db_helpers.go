package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// BatchInserter копит строки и вставляет их одним INSERT ... VALUES (...), (...).
type BatchInserter struct {
	tx          *sqlx.Tx
	query       string
	batchSize   int
	values      []any
	rowCount    int
	fieldsCount int
}

func NewBatchInserter(tx *sqlx.Tx, baseQuery string, fieldsCount int, batchSize int) *BatchInserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BatchInserter{
		tx:          tx,
		query:       baseQuery,
		batchSize:   batchSize,
		values:      make([]any, 0, batchSize*fieldsCount),
		fieldsCount: fieldsCount,
	}
}

func (bi *BatchInserter) Add(ctx context.Context, rowValues ...any) error {
	if len(rowValues) != bi.fieldsCount {
		return fmt.Errorf("expected %d fields, got %d", bi.fieldsCount, len(rowValues))
	}

	bi.values = append(bi.values, rowValues...)
	bi.rowCount++

	if bi.rowCount >= bi.batchSize {
		return bi.Flush(ctx)
	}
	return nil
}

func (bi *BatchInserter) Flush(ctx context.Context) error {
	if bi.rowCount == 0 {
		return nil
	}

	if _, err := bi.tx.ExecContext(ctx, bi.query+" VALUES "+Placeholders(bi.rowCount, bi.fieldsCount), bi.values...); err != nil {
		return fmt.Errorf("batch insert: %w", err)
	}

	bi.values = bi.values[:0]
	bi.rowCount = 0
	return nil
}

// Placeholders строит ($1, $2), ($3, $4) для rows строк по fields колонок.
func Placeholders(rows, fields int) string {
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < fields; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*fields+j+1)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// WithTransaction выполняет fn в транзакции: ошибка или паника откатывают её.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
