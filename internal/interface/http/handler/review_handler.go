package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/review"
)

type ReviewHandler struct {
	createReviewUC       *review.CreateReviewUseCase
	canLeaveReviewUC     *review.CanLeaveReviewUseCase
	listBookingReviewsUC *review.ListBookingReviewsUseCase
	listUserReviewsUC    *review.ListUserReviewsUseCase
}

func NewReviewHandler(
	createReviewUC *review.CreateReviewUseCase,
	canLeaveReviewUC *review.CanLeaveReviewUseCase,
	listBookingReviewsUC *review.ListBookingReviewsUseCase,
	listUserReviewsUC *review.ListUserReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUC:       createReviewUC,
		canLeaveReviewUC:     canLeaveReviewUC,
		listBookingReviewsUC: listBookingReviewsUC,
		listUserReviewsUC:    listUserReviewsUC,
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "некорректный ID бронирования")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	created, agg, err := h.createReviewUC.Execute(c.Request.Context(), actor, review.CreateReviewInput{
		BookingID: bookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToCreateReviewResponse(created, agg))
}

func (h *ReviewHandler) CanReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "некорректный ID бронирования")
	if !ok {
		return
	}

	allowed, reason, err := h.canLeaveReviewUC.Execute(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.CanReviewResponse{CanReview: allowed, Reason: reason})
}

func (h *ReviewHandler) ListBookingReviews(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := parseIDParam(c, "id", "некорректный ID бронирования")
	if !ok {
		return
	}

	reviews, err := h.listBookingReviewsUC.Execute(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReviewResponses(reviews))
}

// ListUserReviews: публичный список отзывов о пользователе.
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}
	limit, offset := pageParams(c)

	reviews, total, err := h.listUserReviewsUC.Execute(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToReviewResponses(reviews), total, limit, offset)
}
