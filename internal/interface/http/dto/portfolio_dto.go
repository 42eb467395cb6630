package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type AddPortfolioItemRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	MediaURL    string `json:"media_url" binding:"required,url,max=500"`
	MediaKind   string `json:"media_kind" binding:"omitempty,oneof=image video audio"`
}

type ReorderPortfolioRequest struct {
	ItemIDs []string `json:"item_ids" binding:"required,min=1,dive,uuid"`
}

type PortfolioItemResponse struct {
	ID           uuid.UUID `json:"id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	MediaURL     string    `json:"media_url"`
	MediaKind    string    `json:"media_kind"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToPortfolioItemResponse(p *entity.PortfolioItem) PortfolioItemResponse {
	return PortfolioItemResponse{
		ID:           p.ID,
		FreelancerID: p.FreelancerID,
		Title:        p.Title,
		Description:  p.Description,
		MediaURL:     p.MediaURL,
		MediaKind:    string(p.MediaKind),
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt,
	}
}

func ToPortfolioItemResponses(items []*entity.PortfolioItem) []PortfolioItemResponse {
	return mapSlice(items, ToPortfolioItemResponse)
}
