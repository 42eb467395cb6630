package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/receivable"
)

type ReceivableHandler struct {
	ledgerUC *receivable.LedgerUseCase
}

func NewReceivableHandler(ledgerUC *receivable.LedgerUseCase) *ReceivableHandler {
	return &ReceivableHandler{ledgerUC: ledgerUC}
}

func toReceivableInput(c *gin.Context, req dto.ReceivableRequest) (receivable.ReceivableInput, bool) {
	serviceDate, err := dto.MustDate(req.ServiceDate)
	if err != nil {
		response.BadRequest(c, "некорректная дата оказания услуги")
		return receivable.ReceivableInput{}, false
	}
	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "некорректный срок оплаты")
		return receivable.ReceivableInput{}, false
	}
	return receivable.ReceivableInput{
		ServiceTitle: req.ServiceTitle,
		ClientName:   req.ClientName,
		ServiceDate:  serviceDate,
		Amount:       req.Amount,
		DueDate:      dueDate,
		Notes:        req.Notes,
	}, true
}

func (h *ReceivableHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.ReceivableRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := toReceivableInput(c, req)
	if !ok {
		return
	}

	r, err := h.ledgerUC.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToReceivableResponse(r))
}

func (h *ReceivableHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	items, err := h.ledgerUC.List(c.Request.Context(), actor, optionalQuery(c, "status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReceivableResponses(items))
}

func (h *ReceivableHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID записи")
	if !ok {
		return
	}

	r, err := h.ledgerUC.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReceivableResponse(r))
}

func (h *ReceivableHandler) Update(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID записи")
	if !ok {
		return
	}
	var req dto.ReceivableRequest
	if !bindJSON(c, &req) {
		return
	}
	input, ok := toReceivableInput(c, req)
	if !ok {
		return
	}

	r, err := h.ledgerUC.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReceivableResponse(r))
}

func (h *ReceivableHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID записи")
	if !ok {
		return
	}
	var req dto.UpdateReceivableStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.ledgerUC.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReceivableResponse(r))
}

func (h *ReceivableHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID записи")
	if !ok {
		return
	}

	if err := h.ledgerUC.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *ReceivableHandler) Summary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	s, err := h.ledgerUC.Summary(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReceivableSummaryResponse(s))
}
