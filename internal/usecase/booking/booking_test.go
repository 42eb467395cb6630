package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/booking"
)

type mockOfferRepository struct {
	repository.OfferRepository
	offers map[uuid.UUID]*entity.Offer
}

func (m *mockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	if o, ok := m.offers[id]; ok {
		return o, nil
	}
	return nil, apperror.ErrOfferNotFound
}

type mockBookingRepository struct {
	bookings  map[uuid.UUID]entity.Booking
	totalJobs map[uuid.UUID]int
	// skipPrecheck имитирует гонку: FindByOfferID не видит параллельную вставку
	skipPrecheck bool
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: map[uuid.UUID]entity.Booking{}, totalJobs: map[uuid.UUID]int{}}
}

func (m *mockBookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	for _, existing := range m.bookings {
		if existing.OfferID == b.OfferID {
			return apperror.New(apperror.ErrCodeConflict, "duplicate offer_id")
		}
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperror.ErrBookingNotFound
	}
	return &b, nil
}

func (m *mockBookingRepository) FindByOfferID(ctx context.Context, offerID uuid.UUID) (*entity.Booking, error) {
	if !m.skipPrecheck {
		for _, b := range m.bookings {
			if b.OfferID == offerID {
				return &b, nil
			}
		}
	}
	return nil, apperror.ErrBookingNotFound
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, b *entity.Booking, from valueobject.BookingStatus) error {
	stored := m.bookings[b.ID]
	if stored.Status != from {
		return apperror.StateConflict("статус бронирования изменился", stored.Status, from)
	}
	m.bookings[b.ID] = *b
	if b.Status == valueobject.BookingStatusCompleted {
		jobs := 0
		for _, other := range m.bookings {
			if other.FreelancerID == b.FreelancerID && other.Status == valueobject.BookingStatusCompleted {
				jobs++
			}
		}
		m.totalJobs[b.FreelancerID] = jobs
	}
	return nil
}

func (m *mockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]*entity.Booking, int, error) {
	var out []*entity.Booking
	for _, b := range m.bookings {
		if !b.IsParticipant(f.ParticipantID) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, &b)
	}
	return out, len(out), nil
}

type nopPublisher struct{ count int }

func (p *nopPublisher) Publish(ctx context.Context, ev entity.DomainEvent) { p.count++ }

type fixture struct {
	offers     *mockOfferRepository
	bookings   *mockBookingRepository
	events     *nopPublisher
	create     *booking.CreateBookingUseCase
	transition *booking.TransitionBookingUseCase
	client     entity.Actor
	freelancer entity.Actor
}

func newFixture() *fixture {
	f := &fixture{
		offers:     &mockOfferRepository{offers: map[uuid.UUID]*entity.Offer{}},
		bookings:   newMockBookingRepository(),
		events:     &nopPublisher{},
		client:     entity.Actor{ID: uuid.New(), Role: valueobject.RoleClient},
		freelancer: entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer},
	}
	f.create = booking.NewCreateBookingUseCase(f.offers, f.bookings, f.events)
	f.transition = booking.NewTransitionBookingUseCase(f.bookings, f.events)
	return f
}

func (f *fixture) offer(status valueobject.OfferStatus) *entity.Offer {
	o := &entity.Offer{
		ID:           uuid.New(),
		ClientID:     f.client.ID,
		FreelancerID: f.freelancer.ID,
		Location:     "Belo Horizonte",
		EventDate:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Budget:       1500,
		Status:       status,
	}
	f.offers.offers[o.ID] = o
	return o
}

func TestCreateBooking_FromAcceptedOffer(t *testing.T) {
	f := newFixture()
	o := f.offer(valueobject.OfferStatusAccepted)

	b, err := f.create.Execute(context.Background(), f.client, booking.CreateBookingInput{OfferID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, valueobject.BookingStatusConfirmed, b.Status)
	assert.Equal(t, o.ID, b.OfferID)
	assert.Equal(t, 1500.0, b.TotalAmount)
	assert.Equal(t, 1, f.events.count)
}

func TestCreateBooking_ExactlyOncePerOffer(t *testing.T) {
	f := newFixture()
	o := f.offer(valueobject.OfferStatusAccepted)
	ctx := context.Background()

	_, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: o.ID})
	require.NoError(t, err)

	_, err = f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: o.ID})
	assert.True(t, apperror.IsConflict(err), "got %v", err)

	// уникальность держится и без предварительной проверки
	f.bookings.skipPrecheck = true
	_, err = f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: o.ID})
	assert.True(t, apperror.IsConflict(err), "got %v", err)
	assert.Len(t, f.bookings.bookings, 1)
}

func TestCreateBooking_NotEligible(t *testing.T) {
	f := newFixture()
	for _, status := range []valueobject.OfferStatus{
		valueobject.OfferStatusPending,
		valueobject.OfferStatusRejected,
		valueobject.OfferStatusCounterProposed,
	} {
		o := f.offer(status)
		_, err := f.create.Execute(context.Background(), f.client, booking.CreateBookingInput{OfferID: o.ID})
		assert.True(t, apperror.IsStateConflict(err), "status %s: %v", status, err)
	}
	assert.Empty(t, f.bookings.bookings)

	o := f.offer(valueobject.OfferStatusAccepted)
	_, err := f.create.Execute(context.Background(), f.freelancer, booking.CreateBookingInput{OfferID: o.ID})
	assert.True(t, apperror.IsForbidden(err))
}

func TestTransitionBooking_CompleteStampsAndCountsJobs(t *testing.T) {
	f := newFixture()
	o := f.offer(valueobject.OfferStatusAccepted)
	ctx := context.Background()
	b, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: o.ID})
	require.NoError(t, err)

	got, err := f.transition.Execute(ctx, f.client, b.ID, entity.BookingActionComplete)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BookingStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, 1, f.bookings.totalJobs[f.freelancer.ID])
}

func TestTransitionBooking_TerminalStatesRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cancelled, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: f.offer(valueobject.OfferStatusAccepted).ID})
	require.NoError(t, err)
	_, err = f.transition.Execute(ctx, f.freelancer, cancelled.ID, entity.BookingActionCancel)
	require.NoError(t, err)

	completed, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: f.offer(valueobject.OfferStatusAccepted).ID})
	require.NoError(t, err)
	_, err = f.transition.Execute(ctx, f.freelancer, completed.ID, entity.BookingActionStart)
	require.NoError(t, err)
	_, err = f.transition.Execute(ctx, f.client, completed.ID, entity.BookingActionComplete)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{cancelled.ID, completed.ID} {
		before, _ := f.bookings.FindByID(ctx, id)
		_, err := f.transition.Execute(ctx, f.client, id, entity.BookingActionComplete)
		assert.True(t, apperror.IsStateConflict(err))
		_, err = f.transition.Execute(ctx, f.client, id, entity.BookingActionCancel)
		assert.True(t, apperror.IsStateConflict(err))
		after, _ := f.bookings.FindByID(ctx, id)
		assert.Equal(t, before.Status, after.Status)
	}
}

func TestTransitionBooking_OnlyClientCompletes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: f.offer(valueobject.OfferStatusAccepted).ID})
	require.NoError(t, err)

	_, err = f.transition.Execute(ctx, f.freelancer, b.ID, entity.BookingActionComplete)
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.transition.Execute(ctx, f.client, b.ID, "archive")
	assert.True(t, apperror.IsValidation(err))
}

func TestGetAndListBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b, err := f.create.Execute(ctx, f.client, booking.CreateBookingInput{OfferID: f.offer(valueobject.OfferStatusAccepted).ID})
	require.NoError(t, err)

	_, err = booking.NewGetBookingUseCase(f.bookings).Execute(ctx, entity.Actor{ID: uuid.New()}, b.ID)
	assert.True(t, apperror.IsForbidden(err))

	status := "confirmed"
	list, total, err := booking.NewListBookingsUseCase(f.bookings).Execute(ctx, f.freelancer, &status, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, b.ID, list[0].ID)
}
