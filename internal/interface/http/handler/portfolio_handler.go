package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/portfolio"
)

type PortfolioHandler struct {
	portfolioUC *portfolio.PortfolioUseCase
}

func NewPortfolioHandler(portfolioUC *portfolio.PortfolioUseCase) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

func (h *PortfolioHandler) AddItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.AddPortfolioItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.portfolioUC.AddItem(c.Request.Context(), actor, portfolio.AddItemInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		MediaKind:   req.MediaKind,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToPortfolioItemResponse(item))
}

func (h *PortfolioHandler) ListByFreelancer(c *gin.Context) {
	freelancerID, ok := parseIDParam(c, "id", "некорректный ID фрилансера")
	if !ok {
		return
	}

	items, err := h.portfolioUC.List(c.Request.Context(), freelancerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPortfolioItemResponses(items))
}

func (h *PortfolioHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	items, err := h.portfolioUC.List(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPortfolioItemResponses(items))
}

func (h *PortfolioHandler) DeleteItem(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID работы")
	if !ok {
		return
	}

	if err := h.portfolioUC.DeleteItem(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *PortfolioHandler) Reorder(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.ReorderPortfolioRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, err := dto.ParseUUIDs(req.ItemIDs)
	if err != nil {
		response.BadRequest(c, "некорректный формат ID работ")
		return
	}

	items, err := h.portfolioUC.Reorder(c.Request.Context(), actor, ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPortfolioItemResponses(items))
}
