package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/freelaav-backend/internal/http/middleware"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
	"github.com/ignatzorin/freelaav-backend/internal/ws"
)

// WSHandler поднимает push-канал уведомлений. Браузер не умеет слать заголовки
// при апгрейде, поэтому токен передаётся в ?token=.
type WSHandler struct {
	hub      *ws.Hub
	tokens   middleware.AccessParser
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens middleware.AccessParser, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	actor, err := h.tokens.ParseAccess(rawToken)
	if err != nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.WithComponent("ws").WithError(err).Debug("upgrade failed")
		return
	}

	ws.NewClient(conn, h.hub, actor.ID).Run(c.Request.Context())
}
