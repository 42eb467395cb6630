package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

type ReceivableRequest struct {
	ServiceTitle string  `json:"service_title" binding:"required,max=200"`
	ClientName   string  `json:"client_name" binding:"required,max=200"`
	ServiceDate  string  `json:"service_date" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	DueDate      *string `json:"due_date"`
	Notes        string  `json:"notes" binding:"max=2000"`
}

type UpdateReceivableStatusRequest struct {
	Status string `json:"status" binding:"required,receivable_status"`
}

type ReceivableResponse struct {
	ID           uuid.UUID `json:"id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	ServiceTitle string    `json:"service_title"`
	ClientName   string    `json:"client_name"`
	ServiceDate  string    `json:"service_date"`
	Amount       float64   `json:"amount"`
	DueDate      *string   `json:"due_date"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ReceivableSummaryResponse struct {
	Totals map[string]float64 `json:"totals"`
	Counts map[string]int     `json:"counts"`
	Count  int                `json:"count"`
}

func ToReceivableResponse(r *entity.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ID:           r.ID,
		FreelancerID: r.FreelancerID,
		ServiceTitle: r.ServiceTitle,
		ClientName:   r.ClientName,
		ServiceDate:  FormatDate(r.ServiceDate),
		Amount:       r.Amount,
		DueDate:      FormatDatePtr(r.DueDate),
		Status:       string(r.Status),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToReceivableResponses(items []*entity.Receivable) []ReceivableResponse {
	return mapSlice(items, ToReceivableResponse)
}

// ToReceivableSummaryResponse отдаёт все статусы, даже с нулевыми суммами.
func ToReceivableSummaryResponse(s entity.ReceivableSummary) ReceivableSummaryResponse {
	out := ReceivableSummaryResponse{
		Totals: map[string]float64{},
		Counts: map[string]int{},
		Count:  s.Count,
	}
	for _, status := range valueobject.ReceivableStatuses {
		out.Totals[string(status)] = s.Totals[status]
		out.Counts[string(status)] = s.Counts[status]
	}
	return out
}
