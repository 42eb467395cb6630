package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type recordingSink struct {
	name string
	err  error
	boom bool

	mu     sync.Mutex
	events []entity.DomainEvent
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, ev entity.DomainEvent) error {
	if s.boom {
		panic("sink exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func event(recipients ...uuid.UUID) entity.DomainEvent {
	return entity.NewDomainEvent(entity.EventOfferCreated, uuid.New(), uuid.New(), recipients, map[string]any{"title": "Show"})
}

func TestDispatcher_FanOutSurvivesFailingSinks(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("smtp down")}
	panicking := &recordingSink{name: "panicking", boom: true}
	ok := &recordingSink{name: "ok"}

	d := NewDispatcher(8, failing, panicking, ok)
	d.Start(context.Background())
	defer d.Stop()

	for i := 0; i < 3; i++ {
		d.Publish(context.Background(), event(uuid.New()))
	}

	assert.Eventually(t, func() bool { return ok.count() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, failing.count())
}

func TestDispatcher_DeliverWrapsAsNotificationError(t *testing.T) {
	d := NewDispatcher(1)

	err := d.deliver(context.Background(), &recordingSink{name: "x", err: errors.New("refused")}, event())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeNotificationDelivery, appErr.Code)

	err = d.deliver(context.Background(), &recordingSink{name: "y", boom: true}, event())
	assert.Error(t, err)

	assert.NoError(t, d.deliver(context.Background(), &recordingSink{name: "z"}, event()))
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	d := NewDispatcher(2, sink)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Publish(context.Background(), event())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, d.queue, 2)

	// Stop досылает то, что уже в очереди
	d.Start(context.Background())
	d.Stop()
	assert.Equal(t, 2, sink.count())
}

func TestWebhookSink_SignsAndAnnotatesRecipients(t *testing.T) {
	secret := "segredo"
	optIn := uuid.New()
	unknown := uuid.New()

	var gotBody []byte
	var gotSig, gotEvent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get(SignatureHeader)
		gotEvent = r.Header.Get(EventHeader)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	profiles := &stubResolver{profiles: []*entity.Profile{{ID: optIn, DisplayName: "Lia", Email: "lia@exemplo.com", WhatsAppOptIn: true}}}
	sink := NewWebhookSink(WebhookConfig{URL: srv.URL, Secret: secret, RatePerSec: 5}, profiles)

	require.NoError(t, sink.Deliver(context.Background(), event(optIn, unknown)))

	assert.Equal(t, string(entity.EventOfferCreated), gotEvent)
	assert.Equal(t, Sign([]byte(secret), gotBody), gotSig)

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Len(t, payload.Recipients, 2)
	assert.True(t, payload.Recipients[0].WhatsAppOptIn)
	assert.Equal(t, "Lia", payload.Recipients[0].DisplayName)
	assert.Equal(t, unknown, payload.Recipients[1].UserID)
	assert.False(t, payload.Recipients[1].WhatsAppOptIn)
	assert.Equal(t, "Show", payload.Data["title"])
}

func TestWebhookSink_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(SignatureHeader))
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// профили недоступны: доставка всё равно идёт
	sink := NewWebhookSink(WebhookConfig{URL: srv.URL}, &stubResolver{err: errors.New("db down")})
	err := sink.Deliver(context.Background(), event(uuid.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()
	sink = NewWebhookSink(WebhookConfig{URL: slow.URL, Timeout: 20 * time.Millisecond}, nil)
	assert.Error(t, sink.Deliver(context.Background(), event()))
}

type stubResolver struct {
	profiles []*entity.Profile
	err      error
}

func (s *stubResolver) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	return s.profiles, s.err
}

type stubHub struct {
	sent map[uuid.UUID]string
	fail uuid.UUID
}

func (h *stubHub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	if userID == h.fail {
		return errors.New("busy")
	}
	h.sent[userID] = event
	return nil
}

func TestHubSink_PushesToEveryRecipient(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	hub := &stubHub{sent: map[uuid.UUID]string{}, fail: b}

	err := NewHubSink(hub).Deliver(context.Background(), event(a, b))
	assert.Error(t, err)
	assert.Equal(t, string(entity.EventOfferCreated), hub.sent[a])
}

type stubInbox struct {
	repository.NotificationRepository
	saved []*entity.Notification
}

func (s *stubInbox) CreateBatch(ctx context.Context, items []*entity.Notification) error {
	s.saved = append(s.saved, items...)
	return nil
}

func TestInboxSink_PersistsPerRecipient(t *testing.T) {
	inbox := &stubInbox{}
	sink := NewInboxSink(inbox)
	a, b := uuid.New(), uuid.New()

	require.NoError(t, sink.Deliver(context.Background(), event(a, uuid.Nil, b)))
	require.Len(t, inbox.saved, 2)
	assert.Equal(t, a, inbox.saved[0].UserID)
	assert.Equal(t, entity.EventOfferCreated, inbox.saved[1].Event)

	require.NoError(t, sink.Deliver(context.Background(), event()))
	assert.Len(t, inbox.saved, 2)
}
