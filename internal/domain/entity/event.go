package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOfferCreated         EventType = "offer.created"
	EventOfferAccepted        EventType = "offer.accepted"
	EventOfferRejected        EventType = "offer.rejected"
	EventOfferCounterProposed EventType = "offer.counter_proposed"
	EventOfferCounterAccepted EventType = "offer.counter_accepted"
	EventOfferCounterRejected EventType = "offer.counter_rejected"
	EventBookingCreated       EventType = "booking.created"
	EventBookingStarted       EventType = "booking.started"
	EventBookingCompleted     EventType = "booking.completed"
	EventBookingCancelled     EventType = "booking.cancelled"
	EventReviewCreated        EventType = "review.created"
	EventMessageSent          EventType = "message.sent"
)

var offerActionEvents = map[OfferAction]EventType{
	OfferActionAccept:        EventOfferAccepted,
	OfferActionReject:        EventOfferRejected,
	OfferActionCounter:       EventOfferCounterProposed,
	OfferActionAcceptCounter: EventOfferCounterAccepted,
	OfferActionRejectCounter: EventOfferCounterRejected,
}

var bookingActionEvents = map[BookingAction]EventType{
	BookingActionStart:    EventBookingStarted,
	BookingActionComplete: EventBookingCompleted,
	BookingActionCancel:   EventBookingCancelled,
}

// DomainEvent уходит в outbox после успешной записи. Доставка не гарантируется.
type DomainEvent struct {
	ID         uuid.UUID
	Type       EventType
	EntityID   uuid.UUID
	ActorID    uuid.UUID
	Recipients []uuid.UUID
	Payload    map[string]any
	OccurredAt time.Time
}

func NewDomainEvent(t EventType, entityID, actorID uuid.UUID, recipients []uuid.UUID, payload map[string]any) DomainEvent {
	return DomainEvent{
		ID:         uuid.New(),
		Type:       t,
		EntityID:   entityID,
		ActorID:    actorID,
		Recipients: recipients,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

func OfferEvent(action OfferAction, o *Offer, actor Actor) DomainEvent {
	payload := map[string]any{
		"offer_id": o.ID.String(),
		"title":    o.Title,
		"status":   string(o.Status),
		"budget":   o.Budget,
	}
	if o.CounterPrice != nil {
		payload["counter_price"] = *o.CounterPrice
	}
	if o.RejectionReason != nil {
		payload["reason"] = *o.RejectionReason
	}
	return NewDomainEvent(offerActionEvents[action], o.ID, actor.ID, []uuid.UUID{otherParty(actor.ID, o.ClientID, o.FreelancerID)}, payload)
}

func OfferCreatedEvent(o *Offer) DomainEvent {
	return NewDomainEvent(EventOfferCreated, o.ID, o.ClientID, []uuid.UUID{o.FreelancerID}, map[string]any{
		"offer_id":   o.ID.String(),
		"title":      o.Title,
		"specialty":  string(o.Specialty),
		"budget":     o.Budget,
		"event_date": o.EventDate.Format(time.DateOnly),
	})
}

func BookingEvent(t EventType, b *Booking, actor Actor) DomainEvent {
	return NewDomainEvent(t, b.ID, actor.ID, []uuid.UUID{b.Counterpart(actor.ID)}, map[string]any{
		"booking_id":   b.ID.String(),
		"offer_id":     b.OfferID.String(),
		"status":       string(b.Status),
		"total_amount": b.TotalAmount,
		"event_date":   b.EventDate.Format(time.DateOnly),
	})
}

func BookingActionEvent(action BookingAction, b *Booking, actor Actor) DomainEvent {
	return BookingEvent(bookingActionEvents[action], b, actor)
}

func ReviewCreatedEvent(r *Review) DomainEvent {
	return NewDomainEvent(EventReviewCreated, r.ID, r.GiverID, []uuid.UUID{r.ReceiverID}, map[string]any{
		"review_id":  r.ID.String(),
		"booking_id": r.BookingID.String(),
		"rating":     r.Rating,
	})
}

func MessageSentEvent(conv *Conversation, m *Message) DomainEvent {
	return NewDomainEvent(EventMessageSent, m.ID, m.SenderID, []uuid.UUID{conv.Counterpart(m.SenderID)}, map[string]any{
		"conversation_id": conv.ID.String(),
		"offer_id":        conv.OfferID.String(),
		"message_id":      m.ID.String(),
	})
}

func otherParty(actorID, a, b uuid.UUID) uuid.UUID {
	if actorID == a {
		return b
	}
	return a
}
