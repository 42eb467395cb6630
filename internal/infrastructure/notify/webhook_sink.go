package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/logger"
)

const (
	SignatureHeader = "X-FreelaAV-Signature"
	EventHeader     = "X-FreelaAV-Event"
)

// RecipientResolver подмешивает к получателям их настройки каналов; реализуется ProfileRepository.
type RecipientResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error)
}

type WebhookConfig struct {
	URL     string
	Secret  string
	Timeout time.Duration
	// RatePerSec <= 0 отключает ограничение
	RatePerSec int
}

// WebhookSink отправляет события внешнему сервису рассылки (email, WhatsApp).
type WebhookSink struct {
	url      string
	secret   []byte
	client   *http.Client
	limiter  *rate.Limiter
	profiles RecipientResolver
}

func NewWebhookSink(cfg WebhookConfig, profiles RecipientResolver) *WebhookSink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	limit := rate.Inf
	burst := 1
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
		burst = cfg.RatePerSec
	}
	return &WebhookSink{
		url:      cfg.URL,
		secret:   []byte(cfg.Secret),
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
		profiles: profiles,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

type webhookRecipient struct {
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	WhatsAppOptIn bool      `json:"whatsapp_opt_in"`
}

type webhookPayload struct {
	ID         uuid.UUID          `json:"id"`
	Type       entity.EventType   `json:"type"`
	EntityID   uuid.UUID          `json:"entity_id"`
	ActorID    uuid.UUID          `json:"actor_id"`
	OccurredAt time.Time          `json:"occurred_at"`
	Recipients []webhookRecipient `json:"recipients"`
	Data       map[string]any     `json:"data"`
}

func (s *WebhookSink) Deliver(ctx context.Context, ev entity.DomainEvent) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook: ожидание лимита: %w", err)
	}

	body, err := json.Marshal(webhookPayload{
		ID:         ev.ID,
		Type:       ev.Type,
		EntityID:   ev.EntityID,
		ActorID:    ev.ActorID,
		OccurredAt: ev.OccurredAt.UTC(),
		Recipients: s.recipients(ctx, ev.Recipients),
		Data:       ev.Payload,
	})
	if err != nil {
		return fmt.Errorf("webhook: сериализация: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, string(ev.Type))
	if len(s.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(s.secret, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: отправка: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: ответ %d", resp.StatusCode)
	}
	return nil
}

// recipients без профилей всё равно уходят, только без контактных данных.
func (s *WebhookSink) recipients(ctx context.Context, ids []uuid.UUID) []webhookRecipient {
	out := make([]webhookRecipient, 0, len(ids))
	byID := map[uuid.UUID]*entity.Profile{}
	if s.profiles != nil && len(ids) > 0 {
		profiles, err := s.profiles.FindByIDs(ctx, ids)
		if err != nil {
			logger.WithComponent("notify").WithError(err).Warn("webhook: не удалось загрузить профили получателей")
		}
		for _, p := range profiles {
			byID[p.ID] = p
		}
	}
	for _, id := range ids {
		r := webhookRecipient{UserID: id}
		if p, ok := byID[id]; ok {
			r.DisplayName = p.DisplayName
			r.Email = p.Email
			r.WhatsAppOptIn = p.WhatsAppOptIn
		}
		out = append(out, r)
	}
	return out
}

// Sign возвращает "sha256=<hex>" HMAC тела запроса.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
