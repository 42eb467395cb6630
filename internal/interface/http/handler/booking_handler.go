package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/infrastructure/metrics"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/booking"
)

type BookingHandler struct {
	createBookingUC     *booking.CreateBookingUseCase
	getBookingUC        *booking.GetBookingUseCase
	listBookingsUC      *booking.ListBookingsUseCase
	transitionBookingUC *booking.TransitionBookingUseCase
}

func NewBookingHandler(
	createBookingUC *booking.CreateBookingUseCase,
	getBookingUC *booking.GetBookingUseCase,
	listBookingsUC *booking.ListBookingsUseCase,
	transitionBookingUC *booking.TransitionBookingUseCase,
) *BookingHandler {
	return &BookingHandler{
		createBookingUC:     createBookingUC,
		getBookingUC:        getBookingUC,
		listBookingsUC:      listBookingsUC,
		transitionBookingUC: transitionBookingUC,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	eventDate, err := dto.ParseDate(req.EventDate)
	if err != nil {
		response.BadRequest(c, "некорректная дата события")
		return
	}

	created, err := h.createBookingUC.Execute(c.Request.Context(), actor, booking.CreateBookingInput{
		OfferID:       req.OfferID,
		Location:      req.Location,
		EventDate:     eventDate,
		TotalAmount:   req.TotalAmount,
		DepositAmount: req.DepositAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBookingResponse(created))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID бронирования")
	if !ok {
		return
	}

	b, err := h.getBookingUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookingResponse(b))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	bookings, total, err := h.listBookingsUC.Execute(c.Request.Context(), actor, optionalQuery(c, "status"), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToBookingResponses(bookings), total, limit, offset)
}

func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID бронирования")
	if !ok {
		return
	}

	var req dto.TransitionBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	action := entity.BookingAction(req.Action)
	if !action.IsValid() {
		response.BadRequest(c, "неизвестное действие: "+req.Action)
		return
	}

	updated, err := h.transitionBookingUC.Execute(c.Request.Context(), actor, id, action)
	metrics.RecordBookingTransition(string(action), metrics.Result(err))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBookingResponse(updated))
}
