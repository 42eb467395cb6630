package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EventPublisher: граница outbox. Publish не блокирует и не возвращает ошибок доставки.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.DomainEvent)
}

// IdempotencyStore резервирует ключ на ttl; false означает повтор.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
