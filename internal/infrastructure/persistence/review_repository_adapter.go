package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/repository/common"
)

const reviewColumns = `id, booking_id, giver_id, receiver_id, rating, comment, created_at`

var errReviewExists = apperror.New(apperror.ErrCodeConflict, "вы уже оставили отзыв по этому бронированию")

type ReviewRepositoryAdapter struct {
	db *sqlx.DB
}

func NewReviewRepositoryAdapter(db *sqlx.DB) *ReviewRepositoryAdapter {
	return &ReviewRepositoryAdapter{db: db}
}

// CreateAndRecompute вставляет отзыв и заново считает среднее по всем отзывам получателя.
// Строка freelancer_profiles есть только у фрилансера; для клиента UPDATE ничего не меняет.
func (r *ReviewRepositoryAdapter) CreateAndRecompute(ctx context.Context, rv *entity.Review) (entity.RatingAggregate, error) {
	var agg ratingRow
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockFreelancerRow(ctx, tx, rv.ReceiverID); err != nil {
			return err
		}

		query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, query,
			rv.ID, rv.BookingID, rv.GiverID, rv.ReceiverID, rv.Rating, rv.Comment, rv.CreatedAt,
		); err != nil {
			return err
		}

		if err := tx.GetContext(ctx, &agg,
			`SELECT COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count FROM reviews WHERE receiver_id = $1`, rv.ReceiverID,
		); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE freelancer_profiles SET rating = ROUND($2::numeric, 2), total_reviews = $3, updated_at = NOW() WHERE profile_id = $1`,
			rv.ReceiverID, agg.Average, agg.Count,
		)
		return err
	})
	if err != nil {
		if common.IsUniqueViolation(err) {
			return entity.RatingAggregate{}, errReviewExists
		}
		return entity.RatingAggregate{}, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить отзыв")
	}
	return entity.RatingAggregate{Average: agg.Average, Count: agg.Count}, nil
}

func (r *ReviewRepositoryAdapter) FindByBookingAndGiver(ctx context.Context, bookingID, giverID uuid.UUID) (*entity.Review, error) {
	var row reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1 AND giver_id = $2`
	if err := r.db.GetContext(ctx, &row, query, bookingID, giverID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзыв")
	}
	return row.toEntity(), nil
}

func (r *ReviewRepositoryAdapter) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Review, error) {
	var rows []reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, bookingID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзывы")
	}
	return toReviewEntities(rows), nil
}

func (r *ReviewRepositoryAdapter) ListByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*entity.Review, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE receiver_id = $1`, receiverID); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать отзывы")
	}

	var rows []reviewRow
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE receiver_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, receiverID, limit, offset); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзывы")
	}
	return toReviewEntities(rows), total, nil
}

type ratingRow struct {
	Average float64 `db:"average"`
	Count   int     `db:"count"`
}

type reviewRow struct {
	ID         uuid.UUID `db:"id"`
	BookingID  uuid.UUID `db:"booking_id"`
	GiverID    uuid.UUID `db:"giver_id"`
	ReceiverID uuid.UUID `db:"receiver_id"`
	Rating     int       `db:"rating"`
	Comment    *string   `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *reviewRow) toEntity() *entity.Review {
	return &entity.Review{
		ID:         r.ID,
		BookingID:  r.BookingID,
		GiverID:    r.GiverID,
		ReceiverID: r.ReceiverID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toReviewEntities(rows []reviewRow) []*entity.Review {
	result := make([]*entity.Review, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}
