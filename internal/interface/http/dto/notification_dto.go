package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	payload := n.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return NotificationResponse{
		ID:        n.ID,
		Event:     string(n.Event),
		Payload:   payload,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	return mapSlice(items, ToNotificationResponse)
}
