package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/offer"
)

type OfferHandler struct {
	createOfferUC     *offer.CreateOfferUseCase
	getOfferUC        *offer.GetOfferUseCase
	listOffersUC      *offer.ListOffersUseCase
	transitionOfferUC *offer.TransitionOfferUseCase
}

func NewOfferHandler(
	createOfferUC *offer.CreateOfferUseCase,
	getOfferUC *offer.GetOfferUseCase,
	listOffersUC *offer.ListOffersUseCase,
	transitionOfferUC *offer.TransitionOfferUseCase,
) *OfferHandler {
	return &OfferHandler{
		createOfferUC:     createOfferUC,
		getOfferUC:        getOfferUC,
		listOffersUC:      listOffersUC,
		transitionOfferUC: transitionOfferUC,
	}
}

func (h *OfferHandler) CreateOffer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateOfferRequest
	if !bindJSON(c, &req) {
		return
	}

	eventDate, err := dto.MustDate(req.EventDate)
	if err != nil {
		response.BadRequest(c, "некорректная дата события")
		return
	}

	created, err := h.createOfferUC.Execute(c.Request.Context(), actor, offer.CreateOfferInput{
		FreelancerID:  req.FreelancerID,
		Specialty:     req.Specialty,
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     eventDate,
		EventTime:     req.EventTime,
		Location:      req.Location,
		DurationHours: req.DurationHours,
		Budget:        req.Budget,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOfferResponse(created))
}

func (h *OfferHandler) GetOffer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	o, err := h.getOfferUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponse(o))
}

func (h *OfferHandler) ListOffers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	offers, total, err := h.listOffersUC.Execute(c.Request.Context(), actor, offer.ListOffersInput{
		Status: optionalQuery(c, "status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToOfferResponses(offers), total, limit, offset)
}

func (h *OfferHandler) TransitionOffer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	var req dto.TransitionOfferRequest
	if !bindJSON(c, &req) {
		return
	}
	action := entity.OfferAction(req.Action)
	if !action.IsValid() {
		response.BadRequest(c, "неизвестное действие: "+req.Action)
		return
	}

	updated, err := h.transitionOfferUC.Execute(c.Request.Context(), actor, offer.TransitionOfferInput{
		OfferID:      id,
		Action:       action,
		Reason:       req.Reason,
		CounterPrice: req.CounterPrice,
	})
	metrics.RecordOfferTransition(string(action), metrics.Result(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToOfferResponse(updated))
}
