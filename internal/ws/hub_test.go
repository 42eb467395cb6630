package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func serve(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, hub, userID).Run(r.Context())
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Online(userID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_DeliversToUser(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	conn := serve(t, hub, userID)

	require.NoError(t, hub.BroadcastToUser(userID, "offer.created", map[string]any{"title": "Casamento"}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "offer.created", env.Type)
	assert.Equal(t, "Casamento", env.Data["title"])
}

func TestHub_OtherUsersNotReached(t *testing.T) {
	hub, _ := startHub(t)
	conn := serve(t, hub, uuid.New())

	require.NoError(t, hub.BroadcastToUser(uuid.New(), "booking.created", nil))

	_ = conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, _ := startHub(t)
	userID := uuid.New()
	conn := serve(t, hub, userID)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Online(userID) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_StoppedRejectsBroadcast(t *testing.T) {
	hub, cancel := startHub(t)
	cancel()
	<-hub.done

	assert.Error(t, hub.BroadcastToUser(uuid.New(), "message.sent", nil))
}
