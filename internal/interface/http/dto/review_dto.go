package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	GiverID    uuid.UUID `json:"giver_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type RatingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type CreateReviewResponse struct {
	Review         ReviewResponse `json:"review"`
	ReceiverRating RatingResponse `json:"receiver_rating"`
}

type CanReviewResponse struct {
	CanReview bool   `json:"can_review"`
	Reason    string `json:"reason,omitempty"`
}

func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		BookingID:  r.BookingID,
		GiverID:    r.GiverID,
		ReceiverID: r.ReceiverID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func ToReviewResponses(reviews []*entity.Review) []ReviewResponse {
	return mapSlice(reviews, ToReviewResponse)
}

func ToCreateReviewResponse(r *entity.Review, agg entity.RatingAggregate) CreateReviewResponse {
	return CreateReviewResponse{
		Review:         ToReviewResponse(r),
		ReceiverRating: RatingResponse{Average: agg.Average, Count: agg.Count},
	}
}
