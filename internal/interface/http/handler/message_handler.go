package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/conversation"
)

type MessageHandler struct {
	sendMessageUC  *conversation.SendMessageUseCase
	listMessagesUC *conversation.ListMessagesUseCase
	pollInterval   time.Duration
}

func NewMessageHandler(
	sendMessageUC *conversation.SendMessageUseCase,
	listMessagesUC *conversation.ListMessagesUseCase,
	pollInterval time.Duration,
) *MessageHandler {
	return &MessageHandler{
		sendMessageUC:  sendMessageUC,
		listMessagesUC: listMessagesUC,
		pollInterval:   pollInterval,
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	offerID, ok := parseIDParam(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.sendMessageUC.Execute(c.Request.Context(), actor, offerID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToMessageResponse(msg))
}

// ListMessages: ?after=<RFC3339> отдаёт только новые сообщения для опроса.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	offerID, ok := parseIDParam(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	var after *time.Time
	if raw := optionalQuery(c, "after"); raw != nil {
		t, err := time.Parse(time.RFC3339Nano, *raw)
		if err != nil {
			response.BadRequest(c, "параметр after должен быть в формате RFC3339")
			return
		}
		after = &t
	}

	msgs, err := h.listMessagesUC.Execute(c.Request.Context(), actor, offerID, after, parseIntQuery(c, "limit", 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMessagesResponse(msgs, h.pollInterval))
}
