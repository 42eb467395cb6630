package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type CreateBookingInput struct {
	OfferID       uuid.UUID
	Location      string
	EventDate     *time.Time
	TotalAmount   *float64
	DepositAmount float64
}

type CreateBookingUseCase struct {
	offerRepo   repository.OfferRepository
	bookingRepo repository.BookingRepository
	events      repository.EventPublisher
}

func NewCreateBookingUseCase(offerRepo repository.OfferRepository, bookingRepo repository.BookingRepository, events repository.EventPublisher) *CreateBookingUseCase {
	return &CreateBookingUseCase{offerRepo: offerRepo, bookingRepo: bookingRepo, events: events}
}

// Execute превращает принятое предложение в бронирование. Второе бронирование по тому же
// предложению отклоняется как дубликат, уникальный индекс по offer_id страхует гонку.
func (uc *CreateBookingUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateBookingInput) (*entity.Booking, error) {
	offer, err := uc.offerRepo.FindByID(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}

	booking, err := entity.NewBookingFromOffer(offer, actor, entity.BookingTerms{
		Location:      input.Location,
		EventDate:     input.EventDate,
		TotalAmount:   input.TotalAmount,
		DepositAmount: input.DepositAmount,
	})
	if err != nil {
		return nil, err
	}

	existing, err := uc.bookingRepo.FindByOfferID(ctx, offer.ID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "бронирование по этому предложению уже создано")
	}

	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, entity.BookingEvent(entity.EventBookingCreated, booking, actor))
	return booking, nil
}

type TransitionBookingUseCase struct {
	bookingRepo repository.BookingRepository
	events      repository.EventPublisher
}

func NewTransitionBookingUseCase(bookingRepo repository.BookingRepository, events repository.EventPublisher) *TransitionBookingUseCase {
	return &TransitionBookingUseCase{bookingRepo: bookingRepo, events: events}
}

func (uc *TransitionBookingUseCase) Execute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, action entity.BookingAction) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := booking.Status
	if err := booking.Apply(actor, action); err != nil {
		return nil, err
	}

	if err := uc.bookingRepo.UpdateStatus(ctx, booking, from); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, entity.BookingActionEvent(action, booking, actor))
	return booking, nil
}

type GetBookingUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewGetBookingUseCase(bookingRepo repository.BookingRepository) *GetBookingUseCase {
	return &GetBookingUseCase{bookingRepo: bookingRepo}
}

func (uc *GetBookingUseCase) Execute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParticipant(actor.ID) {
		return nil, apperror.ErrForbidden
	}
	return booking, nil
}

type ListBookingsUseCase struct {
	bookingRepo repository.BookingRepository
}

func NewListBookingsUseCase(bookingRepo repository.BookingRepository) *ListBookingsUseCase {
	return &ListBookingsUseCase{bookingRepo: bookingRepo}
}

func (uc *ListBookingsUseCase) Execute(ctx context.Context, actor entity.Actor, status *string, limit, offset int) ([]*entity.Booking, int, error) {
	filter := repository.BookingFilter{ParticipantID: actor.ID, Limit: limit, Offset: offset}
	if status != nil && *status != "" {
		s, err := valueobject.NewBookingStatus(*status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &s
	}
	return uc.bookingRepo.List(ctx, filter)
}
