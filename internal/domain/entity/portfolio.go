package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type PortfolioItem struct {
	ID           uuid.UUID
	FreelancerID uuid.UUID
	Title        string
	Description  string
	MediaURL     string
	MediaKind    valueobject.MediaKind
	DisplayOrder int
	CreatedAt    time.Time
}

func NewPortfolioItem(freelancerID uuid.UUID, title, description, mediaURL string, kind valueobject.MediaKind, order int) (*PortfolioItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название работы обязательно")
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, apperror.Validation("ссылка на медиа обязательна")
	}
	if !kind.IsValid() {
		return nil, apperror.Validation("тип медиа должен быть image, video или audio")
	}
	return &PortfolioItem{
		ID:           uuid.New(),
		FreelancerID: freelancerID,
		Title:        title,
		Description:  strings.TrimSpace(description),
		MediaURL:     mediaURL,
		MediaKind:    kind,
		DisplayOrder: order,
		CreatedAt:    time.Now(),
	}, nil
}

func (p *PortfolioItem) IsOwnedBy(userID uuid.UUID) bool {
	return p.FreelancerID == userID
}
