package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessagesResponse содержит подсказку, как часто клиенту опрашивать новые сообщения.
type MessagesResponse struct {
	Messages       []MessageResponse `json:"messages"`
	PollIntervalMs int64             `json:"poll_interval_ms"`
}

func ToMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func ToMessagesResponse(msgs []*entity.Message, poll time.Duration) MessagesResponse {
	return MessagesResponse{
		Messages:       mapSlice(msgs, ToMessageResponse),
		PollIntervalMs: poll.Milliseconds(),
	}
}
