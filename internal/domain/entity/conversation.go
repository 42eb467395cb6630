package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const MaxMessageLength = 5000

// Conversation: переписка по одному предложению между его клиентом и фрилансером.
type Conversation struct {
	ID           uuid.UUID
	OfferID      uuid.UUID
	ClientID     uuid.UUID
	FreelancerID uuid.UUID
	CreatedAt    time.Time
}

func NewConversation(offer *Offer) *Conversation {
	return &Conversation{
		ID:           uuid.New(),
		OfferID:      offer.ID,
		ClientID:     offer.ClientID,
		FreelancerID: offer.FreelancerID,
		CreatedAt:    time.Now(),
	}
}

func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.ClientID == userID || c.FreelancerID == userID
}

func (c *Conversation) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == c.ClientID {
		return c.FreelancerID
	}
	return c.ClientID
}

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	CreatedAt      time.Time
}

func NewMessage(conv *Conversation, senderID uuid.UUID, content string) (*Message, error) {
	if !conv.IsParticipant(senderID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "вы не участник этой беседы")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("сообщение не может быть пустым")
	}
	if len([]rune(content)) > MaxMessageLength {
		return nil, apperror.Validation("сообщение слишком длинное")
	}
	return &Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}, nil
}
