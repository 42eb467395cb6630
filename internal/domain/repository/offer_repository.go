package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

type OfferFilter struct {
	ParticipantID uuid.UUID
	Status        *valueobject.OfferStatus
	Limit         int
	Offset        int
}

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
	// UpdateStatus записывает переход, только если в хранилище всё ещё статус from.
	// Иначе возвращается STATE_CONFLICT с фактическим статусом.
	UpdateStatus(ctx context.Context, offer *entity.Offer, from valueobject.OfferStatus) error
	List(ctx context.Context, filter OfferFilter) ([]*entity.Offer, int, error)
}

type BookingFilter struct {
	ParticipantID uuid.UUID
	Status        *valueobject.BookingStatus
	Limit         int
	Offset        int
}

type BookingRepository interface {
	// Create возвращает CONFLICT, если бронирование для предложения уже существует.
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByOfferID(ctx context.Context, offerID uuid.UUID) (*entity.Booking, error)
	// UpdateStatus: переход с проверкой статуса; завершение пересчитывает total_jobs фрилансера.
	UpdateStatus(ctx context.Context, booking *entity.Booking, from valueobject.BookingStatus) error
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, int, error)
}

type ReviewRepository interface {
	// CreateAndRecompute вставляет отзыв и пересчитывает рейтинг получателя в одной транзакции.
	CreateAndRecompute(ctx context.Context, review *entity.Review) (entity.RatingAggregate, error)
	FindByBookingAndGiver(ctx context.Context, bookingID, giverID uuid.UUID) (*entity.Review, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*entity.Review, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]*entity.Review, int, error)
}
