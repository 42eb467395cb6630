package review

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

var errAlreadyReviewed = apperror.New(apperror.ErrCodeConflict, "вы уже оставили отзыв по этому бронированию")

type CreateReviewInput struct {
	BookingID uuid.UUID
	Rating    int
	Comment   string
}

type CreateReviewUseCase struct {
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
	events      repository.EventPublisher
}

func NewCreateReviewUseCase(bookingRepo repository.BookingRepository, reviewRepo repository.ReviewRepository, events repository.EventPublisher) *CreateReviewUseCase {
	return &CreateReviewUseCase{bookingRepo: bookingRepo, reviewRepo: reviewRepo, events: events}
}

// Execute сохраняет отзыв и пересчитывает средний рейтинг получателя в одной транзакции.
func (uc *CreateReviewUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateReviewInput) (*entity.Review, entity.RatingAggregate, error) {
	booking, err := uc.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, entity.RatingAggregate{}, err
	}

	review, err := entity.NewReview(booking, actor, input.Rating, input.Comment)
	if err != nil {
		return nil, entity.RatingAggregate{}, err
	}

	existing, err := uc.reviewRepo.FindByBookingAndGiver(ctx, booking.ID, actor.ID)
	if err != nil {
		return nil, entity.RatingAggregate{}, err
	}
	if existing != nil {
		return nil, entity.RatingAggregate{}, errAlreadyReviewed
	}

	agg, err := uc.reviewRepo.CreateAndRecompute(ctx, review)
	if err != nil {
		return nil, entity.RatingAggregate{}, err
	}

	uc.events.Publish(ctx, entity.ReviewCreatedEvent(review))
	return review, agg, nil
}

type CanLeaveReviewUseCase struct {
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
}

func NewCanLeaveReviewUseCase(bookingRepo repository.BookingRepository, reviewRepo repository.ReviewRepository) *CanLeaveReviewUseCase {
	return &CanLeaveReviewUseCase{bookingRepo: bookingRepo, reviewRepo: reviewRepo}
}

// Execute возвращает false и причину, если отзыв оставить нельзя.
func (uc *CanLeaveReviewUseCase) Execute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (bool, string, error) {
	booking, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return false, "", err
	}
	if err := entity.CanReview(booking, actor); err != nil {
		var appErr *apperror.AppError
		if apperror.IsForbidden(err) || !errors.As(err, &appErr) {
			return false, "", err
		}
		return false, appErr.Message, nil
	}

	existing, err := uc.reviewRepo.FindByBookingAndGiver(ctx, bookingID, actor.ID)
	if err != nil {
		return false, "", err
	}
	if existing != nil {
		return false, errAlreadyReviewed.Message, nil
	}
	return true, "", nil
}

type ListBookingReviewsUseCase struct {
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
}

func NewListBookingReviewsUseCase(bookingRepo repository.BookingRepository, reviewRepo repository.ReviewRepository) *ListBookingReviewsUseCase {
	return &ListBookingReviewsUseCase{bookingRepo: bookingRepo, reviewRepo: reviewRepo}
}

func (uc *ListBookingReviewsUseCase) Execute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) ([]*entity.Review, error) {
	booking, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) {
		return nil, apperror.ErrForbidden
	}
	return uc.reviewRepo.ListByBooking(ctx, bookingID)
}

type ListUserReviewsUseCase struct {
	reviewRepo repository.ReviewRepository
}

func NewListUserReviewsUseCase(reviewRepo repository.ReviewRepository) *ListUserReviewsUseCase {
	return &ListUserReviewsUseCase{reviewRepo: reviewRepo}
}

// Execute: публичный список отзывов, полученных пользователем.
func (uc *ListUserReviewsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, int, error) {
	return uc.reviewRepo.ListByReceiver(ctx, userID, limit, offset)
}
