package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification: запись во внутреннем inbox пользователя.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Event     EventType
	Payload   map[string]any
	IsRead    bool
	CreatedAt time.Time
}

func NotificationsFromEvent(ev DomainEvent) []*Notification {
	out := make([]*Notification, 0, len(ev.Recipients))
	for _, userID := range ev.Recipients {
		if userID == uuid.Nil {
			continue
		}
		out = append(out, &Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Event:     ev.Type,
			Payload:   ev.Payload,
			CreatedAt: ev.OccurredAt,
		})
	}
	return out
}
