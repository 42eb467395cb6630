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
)

const offerColumns = `id, client_id, freelancer_id, specialty, title, description, event_date, event_time,
	location, duration_hours, budget, counter_price, rejection_reason, status, created_at, updated_at`

type OfferRepositoryAdapter struct {
	db *sqlx.DB
}

func NewOfferRepositoryAdapter(db *sqlx.DB) *OfferRepositoryAdapter {
	return &OfferRepositoryAdapter{db: db}
}

func (r *OfferRepositoryAdapter) Create(ctx context.Context, o *entity.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.ClientID, o.FreelancerID, string(o.Specialty), o.Title, o.Description,
		o.EventDate, o.EventTime, o.Location, o.DurationHours, o.Budget, o.CounterPrice,
		o.RejectionReason, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}
	return nil
}

func (r *OfferRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var row offerRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

// UpdateStatus пишет переход условным UPDATE; проигравший в гонке получает STATE_CONFLICT.
func (r *OfferRepositoryAdapter) UpdateStatus(ctx context.Context, o *entity.Offer, from valueobject.OfferStatus) error {
	query := `UPDATE offers SET status = $3, budget = $4, counter_price = $5, rejection_reason = $6, updated_at = $7
		WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query,
		o.ID, string(from), string(o.Status), o.Budget, o.CounterPrice, o.RejectionReason, o.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
	}
	if n > 0 {
		return nil
	}

	var actual string
	if err := r.db.GetContext(ctx, &actual, `SELECT status FROM offers WHERE id = $1`, o.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrOfferNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить статус предложения")
	}
	return apperror.StateConflict("статус предложения изменился", valueobject.OfferStatus(actual), from)
}

func (r *OfferRepositoryAdapter) List(ctx context.Context, filter repository.OfferFilter) ([]*entity.Offer, int, error) {
	where := ` FROM offers WHERE (client_id = $1 OR freelancer_id = $1)`
	args := []any{filter.ParticipantID}
	argNum := 2

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать предложения")
	}

	query := fmt.Sprintf(`SELECT %s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, offerColumns, where, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var rows []offerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	result := make([]*entity.Offer, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

type offerRow struct {
	ID              uuid.UUID `db:"id"`
	ClientID        uuid.UUID `db:"client_id"`
	FreelancerID    uuid.UUID `db:"freelancer_id"`
	Specialty       string    `db:"specialty"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	EventDate       time.Time `db:"event_date"`
	EventTime       *string   `db:"event_time"`
	Location        string    `db:"location"`
	DurationHours   *float64  `db:"duration_hours"`
	Budget          float64   `db:"budget"`
	CounterPrice    *float64  `db:"counter_price"`
	RejectionReason *string   `db:"rejection_reason"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (o *offerRow) toEntity() *entity.Offer {
	return &entity.Offer{
		ID:              o.ID,
		ClientID:        o.ClientID,
		FreelancerID:    o.FreelancerID,
		Specialty:       valueobject.Specialty(o.Specialty),
		Title:           o.Title,
		Description:     o.Description,
		EventDate:       o.EventDate,
		EventTime:       o.EventTime,
		Location:        o.Location,
		DurationHours:   o.DurationHours,
		Budget:          o.Budget,
		CounterPrice:    o.CounterPrice,
		RejectionReason: o.RejectionReason,
		Status:          valueobject.OfferStatus(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
