package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type BookingAction string

const (
	BookingActionStart    BookingAction = "start"
	BookingActionComplete BookingAction = "complete"
	BookingActionCancel   BookingAction = "cancel"
)

func (a BookingAction) IsValid() bool {
	switch a {
	case BookingActionStart, BookingActionComplete, BookingActionCancel:
		return true
	}
	return false
}

type Booking struct {
	ID            uuid.UUID
	OfferID       uuid.UUID
	ClientID      uuid.UUID
	FreelancerID  uuid.UUID
	Location      string
	EventDate     time.Time
	TotalAmount   float64
	DepositAmount float64
	Status        valueobject.BookingStatus
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingTerms: условия бронирования. Пустые поля берутся из предложения.
type BookingTerms struct {
	Location      string
	EventDate     *time.Time
	TotalAmount   *float64
	DepositAmount float64
}

// NewBookingFromOffer подтверждает принятое предложение.
func NewBookingFromOffer(offer *Offer, client Actor, terms BookingTerms) (*Booking, error) {
	if client.ID != offer.ClientID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить бронирование может только клиент предложения")
	}
	if offer.Status != valueobject.OfferStatusAccepted {
		return nil, apperror.StateConflict("предложение не подходит для бронирования", offer.Status, valueobject.OfferStatusAccepted)
	}

	location := strings.TrimSpace(terms.Location)
	if location == "" {
		location = offer.Location
	}
	eventDate := offer.EventDate
	if terms.EventDate != nil {
		eventDate = *terms.EventDate
	}
	total := offer.EffectiveBudget()
	if terms.TotalAmount != nil {
		total = *terms.TotalAmount
	}
	totalMoney, err := valueobject.NewMoney(total, valueobject.CurrencyBRL)
	if err != nil {
		return nil, apperror.Validation("сумма бронирования должна быть положительной")
	}
	if terms.DepositAmount < 0 || terms.DepositAmount > totalMoney.Amount {
		return nil, apperror.Validation("депозит должен быть от нуля до суммы бронирования")
	}

	now := time.Now()
	return &Booking{
		ID:            uuid.New(),
		OfferID:       offer.ID,
		ClientID:      offer.ClientID,
		FreelancerID:  offer.FreelancerID,
		Location:      location,
		EventDate:     eventDate,
		TotalAmount:   totalMoney.Amount,
		DepositAmount: terms.DepositAmount,
		Status:        valueobject.BookingStatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.ClientID == userID || b.FreelancerID == userID
}

// Counterpart возвращает второго участника бронирования.
func (b *Booking) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == b.ClientID {
		return b.FreelancerID
	}
	return b.ClientID
}

func (b *Booking) transition(to valueobject.BookingStatus, message string) error {
	if !b.Status.CanTransitionTo(to) {
		return apperror.StateConflict(message, b.Status, to.AllowedSources()...)
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Booking) Start(actor Actor) error {
	if !b.IsParticipant(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "вы не участник этого бронирования")
	}
	return b.transition(valueobject.BookingStatusInProgress, "начать можно только подтверждённое бронирование")
}

func (b *Booking) Complete(actor Actor) error {
	if actor.ID != b.ClientID {
		return apperror.New(apperror.ErrCodeForbidden, "завершить бронирование может только клиент")
	}
	if err := b.transition(valueobject.BookingStatusCompleted, "бронирование нельзя завершить в текущем статусе"); err != nil {
		return err
	}
	now := b.UpdatedAt
	b.CompletedAt = &now
	return nil
}

func (b *Booking) Cancel(actor Actor) error {
	if !b.IsParticipant(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "вы не участник этого бронирования")
	}
	if err := b.transition(valueobject.BookingStatusCancelled, "бронирование нельзя отменить в текущем статусе"); err != nil {
		return err
	}
	now := b.UpdatedAt
	b.CancelledAt = &now
	return nil
}

func (b *Booking) Apply(actor Actor, action BookingAction) error {
	switch action {
	case BookingActionStart:
		return b.Start(actor)
	case BookingActionComplete:
		return b.Complete(actor)
	case BookingActionCancel:
		return b.Cancel(actor)
	default:
		return apperror.Validation("неизвестное действие с бронированием")
	}
}
