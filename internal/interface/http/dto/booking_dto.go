package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

// CreateBookingRequest: незаполненные поля берутся из принятого предложения.
type CreateBookingRequest struct {
	OfferID       uuid.UUID `json:"offer_id" binding:"required"`
	Location      string    `json:"location" binding:"max=200"`
	EventDate     *string   `json:"event_date"`
	TotalAmount   *float64  `json:"total_amount" binding:"omitempty,gt=0"`
	DepositAmount float64   `json:"deposit_amount" binding:"gte=0"`
}

// TransitionBookingRequest: action одно из start, complete, cancel.
type TransitionBookingRequest struct {
	Action string `json:"action" binding:"required"`
}

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	OfferID       uuid.UUID  `json:"offer_id"`
	ClientID      uuid.UUID  `json:"client_id"`
	FreelancerID  uuid.UUID  `json:"freelancer_id"`
	Location      string     `json:"location"`
	EventDate     string     `json:"event_date"`
	TotalAmount   float64    `json:"total_amount"`
	DepositAmount float64    `json:"deposit_amount"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToBookingResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		OfferID:       b.OfferID,
		ClientID:      b.ClientID,
		FreelancerID:  b.FreelancerID,
		Location:      b.Location,
		EventDate:     FormatDate(b.EventDate),
		TotalAmount:   b.TotalAmount,
		DepositAmount: b.DepositAmount,
		Status:        string(b.Status),
		CompletedAt:   b.CompletedAt,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToBookingResponses(bookings []*entity.Booking) []BookingResponse {
	return mapSlice(bookings, ToBookingResponse)
}
