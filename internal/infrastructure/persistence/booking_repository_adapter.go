package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/repository/common"
)

const bookingColumns = `id, offer_id, client_id, freelancer_id, location, event_date, total_amount,
	deposit_amount, status, completed_at, cancelled_at, created_at, updated_at`

var errBookingExists = apperror.New(apperror.ErrCodeConflict, "бронирование для этого предложения уже существует")

type BookingRepositoryAdapter struct {
	db *sqlx.DB
}

func NewBookingRepositoryAdapter(db *sqlx.DB) *BookingRepositoryAdapter {
	return &BookingRepositoryAdapter{db: db}
}

func (r *BookingRepositoryAdapter) Create(ctx context.Context, b *entity.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.OfferID, b.ClientID, b.FreelancerID, b.Location, b.EventDate, b.TotalAmount,
		b.DepositAmount, string(b.Status), b.CompletedAt, b.CancelledAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return errBookingExists
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать бронирование")
	}
	return nil
}

func (r *BookingRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepositoryAdapter) FindByOfferID(ctx context.Context, offerID uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE offer_id = $1`, offerID)
}

func (r *BookingRepositoryAdapter) findOne(ctx context.Context, query string, arg any) (*entity.Booking, error) {
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить бронирование")
	}
	return row.toEntity(), nil
}

// UpdateStatus пишет переход и при завершении пересчитывает total_jobs в той же транзакции.
func (r *BookingRepositoryAdapter) UpdateStatus(ctx context.Context, b *entity.Booking, from valueobject.BookingStatus) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE bookings SET status = $3, completed_at = $4, cancelled_at = $5, updated_at = $6
			WHERE id = $1 AND status = $2`
		res, err := tx.ExecContext(ctx, query, b.ID, string(from), string(b.Status), b.CompletedAt, b.CancelledAt, b.UpdatedAt)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			var actual string
			if err := tx.GetContext(ctx, &actual, `SELECT status FROM bookings WHERE id = $1`, b.ID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperror.ErrBookingNotFound
				}
				return err
			}
			return apperror.StateConflict("статус бронирования изменился", valueobject.BookingStatus(actual), from)
		}

		if b.Status != valueobject.BookingStatusCompleted {
			return nil
		}
		if err := lockFreelancerRow(ctx, tx, b.FreelancerID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE freelancer_profiles SET total_jobs = (
				SELECT COUNT(*) FROM bookings WHERE freelancer_id = $1 AND status = 'completed'
			), updated_at = NOW() WHERE profile_id = $1`, b.FreelancerID)
		return err
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить бронирование")
	}
	return nil
}

func (r *BookingRepositoryAdapter) List(ctx context.Context, filter repository.BookingFilter) ([]*entity.Booking, int, error) {
	where := ` FROM bookings WHERE (client_id = $1 OR freelancer_id = $1)`
	args := []any{filter.ParticipantID}
	argNum := 2

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать бронирования")
	}

	query := fmt.Sprintf(`SELECT %s%s ORDER BY event_date DESC, created_at DESC LIMIT $%d OFFSET $%d`, bookingColumns, where, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить бронирования")
	}
	result := make([]*entity.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

type bookingRow struct {
	ID            uuid.UUID  `db:"id"`
	OfferID       uuid.UUID  `db:"offer_id"`
	ClientID      uuid.UUID  `db:"client_id"`
	FreelancerID  uuid.UUID  `db:"freelancer_id"`
	Location      string     `db:"location"`
	EventDate     time.Time  `db:"event_date"`
	TotalAmount   float64    `db:"total_amount"`
	DepositAmount float64    `db:"deposit_amount"`
	Status        string     `db:"status"`
	CompletedAt   *time.Time `db:"completed_at"`
	CancelledAt   *time.Time `db:"cancelled_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (b *bookingRow) toEntity() *entity.Booking {
	return &entity.Booking{
		ID:            b.ID,
		OfferID:       b.OfferID,
		ClientID:      b.ClientID,
		FreelancerID:  b.FreelancerID,
		Location:      b.Location,
		EventDate:     b.EventDate,
		TotalAmount:   b.TotalAmount,
		DepositAmount: b.DepositAmount,
		Status:        valueobject.BookingStatus(b.Status),
		CompletedAt:   b.CompletedAt,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
