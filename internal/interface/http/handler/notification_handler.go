package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/notification"
)

type NotificationHandler struct {
	inboxUC *notification.InboxUseCase
}

func NewNotificationHandler(inboxUC *notification.InboxUseCase) *NotificationHandler {
	return &NotificationHandler{inboxUC: inboxUC}
}

func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pageParams(c)
	unreadOnly := c.Query("unread") == "true"

	items, total, err := h.inboxUC.List(c.Request.Context(), actor, unreadOnly, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToNotificationResponses(items), total, limit, offset)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	n, err := h.inboxUC.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.UnreadCountResponse{Unread: n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	if err := h.inboxUC.MarkRead(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	n, err := h.inboxUC.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"updated": n})
}
