package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type InboxUseCase struct {
	repo repository.NotificationRepository
}

func NewInboxUseCase(repo repository.NotificationRepository) *InboxUseCase {
	return &InboxUseCase{repo: repo}
}

func (uc *InboxUseCase) List(ctx context.Context, actor entity.Actor, unreadOnly bool, limit, offset int) ([]*entity.Notification, int, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := uc.repo.ListByUser(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []*entity.Notification{}
	}
	return items, total, nil
}

func (uc *InboxUseCase) UnreadCount(ctx context.Context, actor entity.Actor) (int, error) {
	return uc.repo.CountUnread(ctx, actor.ID)
}

// MarkRead отмечает только уведомление владельца; чужое выглядит как несуществующее.
func (uc *InboxUseCase) MarkRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	return uc.repo.MarkRead(ctx, id, actor.ID)
}

func (uc *InboxUseCase) MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error) {
	return uc.repo.MarkAllRead(ctx, actor.ID)
}
