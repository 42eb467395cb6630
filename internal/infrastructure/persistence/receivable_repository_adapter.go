package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const receivableColumns = `id, freelancer_id, service_title, client_name, service_date, amount, due_date,
	status, notes, created_at, updated_at`

type ReceivableRepositoryAdapter struct {
	db *sqlx.DB
}

func NewReceivableRepositoryAdapter(db *sqlx.DB) *ReceivableRepositoryAdapter {
	return &ReceivableRepositoryAdapter{db: db}
}

func (r *ReceivableRepositoryAdapter) Create(ctx context.Context, rc *entity.Receivable) error {
	query := `INSERT INTO external_receivables (` + receivableColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		rc.ID, rc.FreelancerID, rc.ServiceTitle, rc.ClientName, rc.ServiceDate, rc.Amount,
		rc.DueDate, string(rc.Status), rc.Notes, rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать запись о платеже")
	}
	return nil
}

func (r *ReceivableRepositoryAdapter) Update(ctx context.Context, rc *entity.Receivable) error {
	query := `UPDATE external_receivables SET service_title = $2, client_name = $3, service_date = $4,
		amount = $5, due_date = $6, status = $7, notes = $8, updated_at = $9 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		rc.ID, rc.ServiceTitle, rc.ClientName, rc.ServiceDate, rc.Amount, rc.DueDate,
		string(rc.Status), rc.Notes, rc.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить запись о платеже")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrReceivableNotFound
	}
	return nil
}

func (r *ReceivableRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM external_receivables WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить запись о платеже")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrReceivableNotFound
	}
	return nil
}

func (r *ReceivableRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error) {
	var row receivableRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+receivableColumns+` FROM external_receivables WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrReceivableNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить запись о платеже")
	}
	return row.toEntity(), nil
}

func (r *ReceivableRepositoryAdapter) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *valueobject.ReceivableStatus) ([]*entity.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM external_receivables WHERE freelancer_id = $1`
	args := []any{ownerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY service_date DESC, created_at DESC`

	var rows []receivableRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить записи о платежах")
	}
	result := make([]*entity.Receivable, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ReceivableRepositoryAdapter) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `UPDATE external_receivables SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < $1::date`
	res, err := r.db.ExecContext(ctx, query, today.Format(time.DateOnly))
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить просроченные платежи")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить просроченные платежи")
	}
	return n, nil
}

type receivableRow struct {
	ID           uuid.UUID  `db:"id"`
	FreelancerID uuid.UUID  `db:"freelancer_id"`
	ServiceTitle string     `db:"service_title"`
	ClientName   string     `db:"client_name"`
	ServiceDate  time.Time  `db:"service_date"`
	Amount       float64    `db:"amount"`
	DueDate      *time.Time `db:"due_date"`
	Status       string     `db:"status"`
	Notes        *string    `db:"notes"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r *receivableRow) toEntity() *entity.Receivable {
	return &entity.Receivable{
		ID:           r.ID,
		FreelancerID: r.FreelancerID,
		ServiceTitle: r.ServiceTitle,
		ClientName:   r.ClientName,
		ServiceDate:  r.ServiceDate,
		Amount:       r.Amount,
		DueDate:      r.DueDate,
		Status:       valueobject.ReceivableStatus(r.Status),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
