package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
)

// Broadcaster: push в открытые соединения пользователя (ws.Hub).
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

type HubSink struct {
	hub Broadcaster
}

func NewHubSink(hub Broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Name() string { return "ws" }

func (s *HubSink) Deliver(_ context.Context, ev entity.DomainEvent) error {
	data := map[string]any{
		"id":          ev.ID,
		"entity_id":   ev.EntityID,
		"occurred_at": ev.OccurredAt,
		"payload":     ev.Payload,
	}
	var errs []error
	for _, userID := range ev.Recipients {
		if err := s.hub.BroadcastToUser(userID, string(ev.Type), data); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
		}
	}
	return errors.Join(errs...)
}

// InboxSink сохраняет уведомления во внутренний inbox получателей.
type InboxSink struct {
	repo repository.NotificationRepository
}

func NewInboxSink(repo repository.NotificationRepository) *InboxSink {
	return &InboxSink{repo: repo}
}

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, ev entity.DomainEvent) error {
	items := entity.NotificationsFromEvent(ev)
	if len(items) == 0 {
		return nil
	}
	return s.repo.CreateBatch(ctx, items)
}
