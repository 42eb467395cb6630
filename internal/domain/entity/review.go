package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const maxReviewComment = 2000

type Review struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	GiverID    uuid.UUID
	ReceiverID uuid.UUID
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}

// CanReview проверяет, что участник может оставить отзыв по бронированию.
func CanReview(b *Booking, giver Actor) error {
	if !b.IsParticipant(giver.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "отзыв может оставить только участник бронирования")
	}
	if b.Status != valueobject.BookingStatusCompleted {
		return apperror.StateConflict("отзыв доступен только после завершения", b.Status, valueobject.BookingStatusCompleted)
	}
	return nil
}

func NewReview(b *Booking, giver Actor, rating int, comment string) (*Review, error) {
	if err := CanReview(b, giver); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, apperror.Validation("оценка должна быть от 1 до 5")
	}

	r := &Review{
		ID:         uuid.New(),
		BookingID:  b.ID,
		GiverID:    giver.ID,
		ReceiverID: b.Counterpart(giver.ID),
		Rating:     rating,
		CreatedAt:  time.Now(),
	}
	if comment = strings.TrimSpace(comment); comment != "" {
		if len([]rune(comment)) > maxReviewComment {
			return nil, apperror.Validation("комментарий слишком длинный")
		}
		r.Comment = &comment
	}
	return r, nil
}

// RatingAggregate: среднее и количество отзывов получателя.
type RatingAggregate struct {
	Average float64
	Count   int
}

// MeanRating считает среднее заново по всем оценкам.
func MeanRating(ratings []int) RatingAggregate {
	if len(ratings) == 0 {
		return RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RatingAggregate{Average: float64(sum) / float64(len(ratings)), Count: len(ratings)}
}
