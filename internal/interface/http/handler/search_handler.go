package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/search"
	"github.com/ignatzorin/freelaav-backend/internal/validation"
)

type SearchHandler struct {
	searchUC *search.SearchFreelancersUseCase
}

func NewSearchHandler(searchUC *search.SearchFreelancersUseCase) *SearchHandler {
	return &SearchHandler{searchUC: searchUC}
}

func (h *SearchHandler) SearchFreelancers(c *gin.Context) {
	var q dto.SearchFreelancersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, validation.Message(err))
		return
	}
	input, err := q.ToInput()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	started := time.Now()
	out, err := h.searchUC.Execute(c.Request.Context(), input)
	metrics.ObserveSearch(time.Since(started))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paged(c, dto.ToFreelancerSummaryResponses(out.Results), response.PagePagination{
		Page:       out.Pagination.Page,
		Limit:      out.Pagination.Limit,
		Total:      out.Pagination.Total,
		TotalPages: out.Pagination.TotalPages,
		HasMore:    out.Pagination.HasMore,
	})
}
