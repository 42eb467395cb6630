package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListSpecialties GET /catalog/specialties
func (h *CatalogHandler) ListSpecialties(c *gin.Context) {
	response.Success(c, valueobject.All())
}

// ListStatuses GET /catalog/statuses: допустимые статусы для фильтров клиента.
func (h *CatalogHandler) ListStatuses(c *gin.Context) {
	response.Success(c, gin.H{
		"offer":      valueobject.OfferStatuses,
		"booking":    valueobject.BookingStatuses,
		"receivable": valueobject.ReceivableStatuses,
	})
}
