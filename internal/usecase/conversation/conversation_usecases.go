package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const (
	DefaultMessagesLimit = 50
	MaxMessagesLimit     = 200
)

// resolve находит беседу предложения и создаёт её при первом обращении участника.
func resolve(ctx context.Context, offerRepo repository.OfferRepository, convRepo repository.ConversationRepository, actor entity.Actor, offerID uuid.UUID) (*entity.Conversation, error) {
	o, err := offerRepo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !o.IsParticipant(actor.ID) {
		return nil, apperror.ErrForbidden
	}

	conv, err := convRepo.FindByOfferID(ctx, offerID)
	if err == nil {
		return conv, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}
	return convRepo.Ensure(ctx, entity.NewConversation(o))
}

type SendMessageUseCase struct {
	offerRepo repository.OfferRepository
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
	events    repository.EventPublisher
}

func NewSendMessageUseCase(offerRepo repository.OfferRepository, convRepo repository.ConversationRepository, msgRepo repository.MessageRepository, events repository.EventPublisher) *SendMessageUseCase {
	return &SendMessageUseCase{offerRepo: offerRepo, convRepo: convRepo, msgRepo: msgRepo, events: events}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, actor entity.Actor, offerID uuid.UUID, content string) (*entity.Message, error) {
	conv, err := resolve(ctx, uc.offerRepo, uc.convRepo, actor, offerID)
	if err != nil {
		return nil, err
	}

	msg, err := entity.NewMessage(conv, actor.ID, content)
	if err != nil {
		return nil, err
	}
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, entity.MessageSentEvent(conv, msg))
	return msg, nil
}

type ListMessagesUseCase struct {
	offerRepo repository.OfferRepository
	convRepo  repository.ConversationRepository
	msgRepo   repository.MessageRepository
}

func NewListMessagesUseCase(offerRepo repository.OfferRepository, convRepo repository.ConversationRepository, msgRepo repository.MessageRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{offerRepo: offerRepo, convRepo: convRepo, msgRepo: msgRepo}
}

// Execute отдаёт сообщения строго после after; клиент опрашивает с последней увиденной меткой.
func (uc *ListMessagesUseCase) Execute(ctx context.Context, actor entity.Actor, offerID uuid.UUID, after *time.Time, limit int) ([]*entity.Message, error) {
	conv, err := resolve(ctx, uc.offerRepo, uc.convRepo, actor, offerID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessagesLimit
	}
	if limit > MaxMessagesLimit {
		limit = MaxMessagesLimit
	}

	msgs, err := uc.msgRepo.ListByConversation(ctx, conv.ID, after, limit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []*entity.Message{}
	}
	return msgs, nil
}
