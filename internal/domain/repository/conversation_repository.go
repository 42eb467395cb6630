package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type ConversationRepository interface {
	// Ensure создаёт беседу по предложению, если её ещё нет, и возвращает сохранённую.
	Ensure(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error)
	FindByOfferID(ctx context.Context, offerID uuid.UUID) (*entity.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	// ListByConversation возвращает сообщения по возрастанию времени, строго после after.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, after *time.Time, limit int) ([]*entity.Message, error)
}
