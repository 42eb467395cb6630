package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type OfferAction string

const (
	OfferActionAccept        OfferAction = "accept"
	OfferActionReject        OfferAction = "reject"
	OfferActionCounter       OfferAction = "counter"
	OfferActionAcceptCounter OfferAction = "accept_counter"
	OfferActionRejectCounter OfferAction = "reject_counter"
)

func (a OfferAction) IsValid() bool {
	switch a {
	case OfferActionAccept, OfferActionReject, OfferActionCounter, OfferActionAcceptCounter, OfferActionRejectCounter:
		return true
	}
	return false
}

type Offer struct {
	ID              uuid.UUID
	ClientID        uuid.UUID
	FreelancerID    uuid.UUID
	Specialty       valueobject.Specialty
	Title           string
	Description     string
	EventDate       time.Time
	EventTime       *string
	Location        string
	DurationHours   *float64
	Budget          float64
	CounterPrice    *float64
	RejectionReason *string
	Status          valueobject.OfferStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OfferDraft struct {
	FreelancerID  uuid.UUID
	Specialty     string
	Title         string
	Description   string
	EventDate     time.Time
	EventTime     *string
	Location      string
	DurationHours *float64
	Budget        float64
}

// NewOffer создаёт предложение в статусе pending от имени клиента.
func NewOffer(client Actor, d OfferDraft) (*Offer, error) {
	if !client.IsClient() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "создавать предложения может только клиент")
	}
	if d.FreelancerID == uuid.Nil {
		return nil, apperror.Validation("фрилансер обязателен")
	}
	if d.FreelancerID == client.ID {
		return nil, apperror.Validation("нельзя отправить предложение самому себе")
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, apperror.Validation("название предложения обязательно")
	}
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return nil, apperror.Validation("описание предложения обязательно")
	}
	location := strings.TrimSpace(d.Location)
	if location == "" {
		return nil, apperror.Validation("место проведения обязательно")
	}
	if d.EventDate.IsZero() {
		return nil, apperror.Validation("дата события обязательна")
	}
	if d.DurationHours != nil && *d.DurationHours <= 0 {
		return nil, apperror.Validation("длительность должна быть положительной")
	}
	specialty, err := valueobject.ParseSpecialty(d.Specialty)
	if err != nil {
		return nil, err
	}
	budget, err := valueobject.NewMoney(d.Budget, valueobject.CurrencyBRL)
	if err != nil {
		return nil, apperror.Validation("бюджет должен быть положительным")
	}

	now := time.Now()
	return &Offer{
		ID:            uuid.New(),
		ClientID:      client.ID,
		FreelancerID:  d.FreelancerID,
		Specialty:     specialty,
		Title:         title,
		Description:   description,
		EventDate:     d.EventDate,
		EventTime:     d.EventTime,
		Location:      location,
		DurationHours: d.DurationHours,
		Budget:        budget.Amount,
		Status:        valueobject.OfferStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (o *Offer) IsParticipant(userID uuid.UUID) bool {
	return o.ClientID == userID || o.FreelancerID == userID
}

// requireFreelancerPending: в pending действует только назначенный фрилансер.
func (o *Offer) requireFreelancerPending(actor Actor) error {
	if actor.ID != o.FreelancerID {
		return apperror.New(apperror.ErrCodeForbidden, "ответить на предложение может только назначенный фрилансер")
	}
	if o.Status != valueobject.OfferStatusPending {
		return apperror.StateConflict("предложение уже не ожидает ответа", o.Status, valueobject.OfferStatusPending)
	}
	return nil
}

// requireClientCounter: встречное предложение разрешает только клиент.
func (o *Offer) requireClientCounter(actor Actor) error {
	if actor.ID != o.ClientID {
		return apperror.New(apperror.ErrCodeForbidden, "ответить на встречное предложение может только клиент")
	}
	if o.Status != valueobject.OfferStatusCounterProposed {
		return apperror.StateConflict("встречного предложения нет", o.Status, valueobject.OfferStatusCounterProposed)
	}
	return nil
}

func (o *Offer) Accept(actor Actor) error {
	if err := o.requireFreelancerPending(actor); err != nil {
		return err
	}
	o.Status = valueobject.OfferStatusAccepted
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Offer) Reject(actor Actor, reason string) error {
	if err := o.requireFreelancerPending(actor); err != nil {
		return err
	}
	o.Status = valueobject.OfferStatusRejected
	if reason = strings.TrimSpace(reason); reason != "" {
		o.RejectionReason = &reason
	}
	o.UpdatedAt = time.Now()
	return nil
}

// Counter сохраняет встречную цену, исходный бюджет не меняется.
func (o *Offer) Counter(actor Actor, price float64) error {
	if err := o.requireFreelancerPending(actor); err != nil {
		return err
	}
	counter, err := valueobject.NewMoney(price, valueobject.CurrencyBRL)
	if err != nil {
		return apperror.Validation("встречная цена должна быть положительной")
	}
	o.CounterPrice = &counter.Amount
	o.Status = valueobject.OfferStatusCounterProposed
	o.UpdatedAt = time.Now()
	return nil
}

// AcceptCounter делает встречную цену итоговым бюджетом.
func (o *Offer) AcceptCounter(actor Actor) error {
	if err := o.requireClientCounter(actor); err != nil {
		return err
	}
	if o.CounterPrice == nil {
		return apperror.New(apperror.ErrCodeInternal, "встречная цена отсутствует")
	}
	o.Budget = *o.CounterPrice
	o.Status = valueobject.OfferStatusAccepted
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Offer) RejectCounter(actor Actor, reason string) error {
	if err := o.requireClientCounter(actor); err != nil {
		return err
	}
	o.Status = valueobject.OfferStatusRejected
	if reason = strings.TrimSpace(reason); reason != "" {
		o.RejectionReason = &reason
	}
	o.UpdatedAt = time.Now()
	return nil
}

// Apply выполняет действие над предложением; payload нужен только для reject и counter.
func (o *Offer) Apply(actor Actor, action OfferAction, reason string, counterPrice *float64) error {
	if !o.IsParticipant(actor.ID) {
		return apperror.New(apperror.ErrCodeForbidden, "вы не участник этого предложения")
	}
	switch action {
	case OfferActionAccept:
		return o.Accept(actor)
	case OfferActionReject:
		return o.Reject(actor, reason)
	case OfferActionCounter:
		if counterPrice == nil {
			if err := o.requireFreelancerPending(actor); err != nil {
				return err
			}
			return apperror.Validation("встречная цена обязательна")
		}
		return o.Counter(actor, *counterPrice)
	case OfferActionAcceptCounter:
		return o.AcceptCounter(actor)
	case OfferActionRejectCounter:
		return o.RejectCounter(actor, reason)
	default:
		return apperror.Validation("неизвестное действие с предложением")
	}
}

// EffectiveBudget: цена, которая пойдёт в бронирование.
func (o *Offer) EffectiveBudget() float64 {
	return o.Budget
}
