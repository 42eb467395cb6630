package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type CreateOfferRequest struct {
	FreelancerID  uuid.UUID `json:"freelancer_id" binding:"required"`
	Specialty     string    `json:"specialty" binding:"required,specialty"`
	Title         string    `json:"title" binding:"required,max=200"`
	Description   string    `json:"description" binding:"required,max=5000"`
	EventDate     string    `json:"event_date" binding:"required"`
	EventTime     *string   `json:"event_time"`
	Location      string    `json:"location" binding:"required,max=200"`
	DurationHours *float64  `json:"duration_hours" binding:"omitempty,gt=0"`
	Budget        float64   `json:"budget" binding:"required,gt=0"`
}

// TransitionOfferRequest: action одно из accept, reject, counter, accept_counter, reject_counter.
type TransitionOfferRequest struct {
	Action       string   `json:"action" binding:"required"`
	Reason       string   `json:"reason" binding:"max=2000"`
	CounterPrice *float64 `json:"counter_price"`
}

type OfferResponse struct {
	ID              uuid.UUID `json:"id"`
	ClientID        uuid.UUID `json:"client_id"`
	FreelancerID    uuid.UUID `json:"freelancer_id"`
	Specialty       string    `json:"specialty"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EventDate       string    `json:"event_date"`
	EventTime       *string   `json:"event_time"`
	Location        string    `json:"location"`
	DurationHours   *float64  `json:"duration_hours"`
	Budget          float64   `json:"budget"`
	CounterPrice    *float64  `json:"counter_price"`
	RejectionReason *string   `json:"rejection_reason"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToOfferResponse(o *entity.Offer) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		ClientID:        o.ClientID,
		FreelancerID:    o.FreelancerID,
		Specialty:       string(o.Specialty),
		Title:           o.Title,
		Description:     o.Description,
		EventDate:       FormatDate(o.EventDate),
		EventTime:       o.EventTime,
		Location:        o.Location,
		DurationHours:   o.DurationHours,
		Budget:          o.Budget,
		CounterPrice:    o.CounterPrice,
		RejectionReason: o.RejectionReason,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func ToOfferResponses(offers []*entity.Offer) []OfferResponse {
	return mapSlice(offers, ToOfferResponse)
}
