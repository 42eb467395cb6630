package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/http/middleware"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/offer"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/receivable"
	"github.com/ignatzorin/freelaav-backend/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
}

type offerStore struct {
	mu     sync.Mutex
	offers map[uuid.UUID]entity.Offer
}

func (s *offerStore) Create(ctx context.Context, o *entity.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offers[o.ID] = *o
	return nil
}

func (s *offerStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, apperror.ErrOfferNotFound
	}
	return &o, nil
}

func (s *offerStore) UpdateStatus(ctx context.Context, o *entity.Offer, from valueobject.OfferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored := s.offers[o.ID]; stored.Status != from {
		return apperror.StateConflict("статус предложения изменился", stored.Status, from)
	}
	s.offers[o.ID] = *o
	return nil
}

func (s *offerStore) List(ctx context.Context, f repository.OfferFilter) ([]*entity.Offer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Offer
	for _, o := range s.offers {
		if o.IsParticipant(f.ParticipantID) {
			out = append(out, &o)
		}
	}
	return out, len(out), nil
}

type profileStore struct {
	repository.ProfileRepository
	profiles map[uuid.UUID]*entity.Profile
}

func (s *profileStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, apperror.ErrProfileNotFound
}

type freelancerStore struct {
	repository.FreelancerRepository
	ids map[uuid.UUID]bool
}

func (s *freelancerStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.FreelancerProfile, error) {
	if s.ids[id] {
		return entity.NewFreelancerProfile(id), nil
	}
	return nil, apperror.ErrFreelancerNotFound
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, ev entity.DomainEvent) {}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code     string   `json:"code"`
		Message  string   `json:"message"`
		Expected []string `json:"expected"`
		Actual   string   `json:"actual"`
	} `json:"error"`
}

// withActor подменяет AuthMiddleware; nil означает анонимный запрос.
func withActor(actor *entity.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			middleware.SetActor(c, *actor)
		}
		c.Next()
	}
}

func call(t *testing.T, r http.Handler, method, path string, body any) (int, apiEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

type offerAPI struct {
	client, freelancer entity.Actor
	asClient           *gin.Engine
	asFreelancer       *gin.Engine
	anonymous          *gin.Engine
}

func newOfferAPI() *offerAPI {
	client := entity.Actor{ID: uuid.New(), Role: valueobject.RoleClient}
	freelancer := entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}

	offers := &offerStore{offers: map[uuid.UUID]entity.Offer{}}
	profiles := &profileStore{profiles: map[uuid.UUID]*entity.Profile{
		client.ID:     {ID: client.ID, Role: valueobject.RoleClient},
		freelancer.ID: {ID: freelancer.ID, Role: valueobject.RoleFreelancer},
	}}
	freelancers := &freelancerStore{ids: map[uuid.UUID]bool{freelancer.ID: true}}

	h := NewOfferHandler(
		offer.NewCreateOfferUseCase(offers, profiles, freelancers, nopPublisher{}),
		offer.NewGetOfferUseCase(offers),
		offer.NewListOffersUseCase(offers),
		offer.NewTransitionOfferUseCase(offers, nopPublisher{}),
	)
	engine := func(actor *entity.Actor) *gin.Engine {
		r := gin.New()
		r.Use(withActor(actor))
		r.POST("/offers", h.CreateOffer)
		r.GET("/offers", h.ListOffers)
		r.GET("/offers/:id", h.GetOffer)
		r.POST("/offers/:id/transitions", h.TransitionOffer)
		return r
	}
	return &offerAPI{
		client:       client,
		freelancer:   freelancer,
		asClient:     engine(&client),
		asFreelancer: engine(&freelancer),
		anonymous:    engine(nil),
	}
}

func (a *offerAPI) createOffer(t *testing.T) uuid.UUID {
	t.Helper()
	code, env := call(t, a.asClient, http.MethodPost, "/offers", map[string]any{
		"freelancer_id": a.freelancer.ID,
		"specialty":     "camera_operator",
		"title":         "Casamento em Ouro Preto",
		"description":   "Cobertura completa da cerimônia",
		"event_date":    time.Now().AddDate(0, 1, 0).Format(time.DateOnly),
		"location":      "Ouro Preto, MG",
		"budget":        1500,
	})
	require.Equal(t, http.StatusCreated, code)

	var out struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "pending", out.Status)
	return out.ID
}

func TestOfferHandler_CreateAndAccept(t *testing.T) {
	api := newOfferAPI()
	id := api.createOffer(t)
	path := "/offers/" + id.String() + "/transitions"

	code, env := call(t, api.asClient, http.MethodPost, path, map[string]any{"action": "accept"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = call(t, api.asFreelancer, http.MethodPost, path, map[string]any{"action": "accept"})
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, api.asFreelancer, http.MethodPost, path, map[string]any{"action": "reject"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "STATE_CONFLICT", env.Error.Code)
	assert.Equal(t, "accepted", env.Error.Actual)
}

func TestOfferHandler_RejectsBadInput(t *testing.T) {
	api := newOfferAPI()

	code, env := call(t, api.asClient, http.MethodPost, "/offers", map[string]any{
		"freelancer_id": api.freelancer.ID,
		"specialty":     "astronaut",
		"title":         "x",
		"description":   "y",
		"event_date":    "2030-01-01",
		"location":      "BH",
		"budget":        100,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, _ = call(t, api.asClient, http.MethodPost, "/offers", map[string]any{
		"freelancer_id": api.freelancer.ID,
		"specialty":     "dj",
		"title":         "x",
		"description":   "y",
		"event_date":    "01/02/2030",
		"location":      "BH",
		"budget":        100,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	id := api.createOffer(t)
	code, _ = call(t, api.asFreelancer, http.MethodPost, "/offers/"+id.String()+"/transitions", map[string]any{"action": "archive"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, api.asClient, http.MethodGet, "/offers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = call(t, api.anonymous, http.MethodGet, "/offers", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestOfferHandler_UnknownFreelancer(t *testing.T) {
	api := newOfferAPI()
	code, env := call(t, api.asClient, http.MethodPost, "/offers", map[string]any{
		"freelancer_id": uuid.New(),
		"specialty":     "dj",
		"title":         "Festa",
		"description":   "Aniversário",
		"event_date":    time.Now().AddDate(0, 0, 10).Format(time.DateOnly),
		"location":      "Recife",
		"budget":        800,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestOfferHandler_ListPaginates(t *testing.T) {
	api := newOfferAPI()
	api.createOffer(t)
	api.createOffer(t)

	req := httptest.NewRequest(http.MethodGet, "/offers?limit=500", nil)
	w := httptest.NewRecorder()
	api.asFreelancer.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Total int `json:"total"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Data, 2)
	assert.Equal(t, 2, out.Pagination.Total)
	assert.Equal(t, maxPageLimit, out.Pagination.Limit)
}

type receivableStore struct {
	items map[uuid.UUID]entity.Receivable
}

func (s *receivableStore) Create(ctx context.Context, r *entity.Receivable) error {
	s.items[r.ID] = *r
	return nil
}

func (s *receivableStore) Update(ctx context.Context, r *entity.Receivable) error {
	s.items[r.ID] = *r
	return nil
}

func (s *receivableStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *receivableStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error) {
	r, ok := s.items[id]
	if !ok {
		return nil, apperror.ErrReceivableNotFound
	}
	return &r, nil
}

func (s *receivableStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *valueobject.ReceivableStatus) ([]*entity.Receivable, error) {
	var out []*entity.Receivable
	for _, r := range s.items {
		if r.FreelancerID == ownerID && (status == nil || r.Status == *status) {
			out = append(out, &r)
		}
	}
	return out, nil
}

func (s *receivableStore) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	return 0, nil
}

func TestReceivableHandler_CRUDAndSummary(t *testing.T) {
	owner := entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}
	h := NewReceivableHandler(receivable.NewLedgerUseCase(&receivableStore{items: map[uuid.UUID]entity.Receivable{}}))

	r := gin.New()
	r.Use(withActor(&owner))
	r.POST("/receivables", h.Create)
	r.GET("/receivables/summary", h.Summary)
	r.PATCH("/receivables/:id/status", h.UpdateStatus)
	r.DELETE("/receivables/:id", h.Delete)

	body := map[string]any{
		"service_title": "Filmagem de formatura",
		"client_name":   "Colégio Santa Maria",
		"service_date":  "2026-09-20",
		"amount":        2400.5,
		"due_date":      "2026-10-20",
	}
	code, env := call(t, r, http.MethodPost, "/receivables", body)
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ID      uuid.UUID `json:"id"`
		DueDate string    `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "2026-10-20", created.DueDate)

	code, _ = call(t, r, http.MethodPatch, "/receivables/"+created.ID.String()+"/status", map[string]any{"status": "paid"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, r, http.MethodPatch, "/receivables/"+created.ID.String()+"/status", map[string]any{"status": "received"})
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodGet, "/receivables/summary", nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		Totals map[string]float64 `json:"totals"`
		Counts map[string]int     `json:"counts"`
		Count  int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2400.5, summary.Totals["received"])
	assert.Contains(t, summary.Totals, "overdue")
	assert.Equal(t, 1, summary.Count)

	code, _ = call(t, r, http.MethodDelete, "/receivables/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, code)

	body["service_date"] = "20/09/2026"
	code, _ = call(t, r, http.MethodPost, "/receivables", body)
	assert.Equal(t, http.StatusBadRequest, code)
}
