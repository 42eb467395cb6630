package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/search"
)

type searchStore struct {
	repository.FreelancerRepository
	population []*entity.FreelancerSummary
	last       repository.FreelancerQuery
}

func (s *searchStore) Search(ctx context.Context, q repository.FreelancerQuery) ([]*entity.FreelancerSummary, error) {
	s.last = q
	return s.population, nil
}

func newSearchAPI(n int) (*gin.Engine, *searchStore) {
	store := &searchStore{}
	for i := 0; i < n; i++ {
		store.population = append(store.population, &entity.FreelancerSummary{
			ID:          uuid.New(),
			DisplayName: fmt.Sprintf("Freelancer %d", i),
			City:        "São Paulo",
			State:       "SP",
			Rating:      float64(i % 5),
			Specialties: []valueobject.Specialty{valueobject.SpecialtyDJ},
		})
	}
	h := NewSearchHandler(search.NewSearchFreelancersUseCase(store))
	r := gin.New()
	r.GET("/freelancers/search", h.SearchFreelancers)
	return r, store
}

type pagedEnvelope struct {
	apiEnvelope
	Pagination struct {
		Page       int  `json:"page"`
		Limit      int  `json:"limit"`
		Total      int  `json:"total"`
		TotalPages int  `json:"total_pages"`
		HasMore    bool `json:"has_more"`
	} `json:"pagination"`
}

func searchCall(t *testing.T, r http.Handler, query string) (int, pagedEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/freelancers/search?"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env pagedEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestSearchHandler_ParsesSpecialtiesAndDate(t *testing.T) {
	r, store := newSearchAPI(5)

	code, env := searchCall(t, r, "specialties=dj,%20camera_operator&specialties=drone_pilot&available_date=2026-12-24&limit=2")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, []valueobject.Specialty{
		valueobject.SpecialtyDJ, valueobject.SpecialtyCameraOperator, valueobject.SpecialtyDronePilot,
	}, store.last.Specialties)
	require.NotNil(t, store.last.AvailableDate)
	assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), *store.last.AvailableDate)

	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, 2, env.Pagination.Limit)
	assert.Equal(t, 5, env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasMore)
}

func TestSearchHandler_PageBeyondRangeIsEmpty(t *testing.T) {
	r, _ := newSearchAPI(3)

	for _, page := range []string{"4", "9223372036854775807"} {
		code, env := searchCall(t, r, "page="+page)
		require.Equal(t, http.StatusOK, code, "page %s", page)
		assert.JSONEq(t, `[]`, string(env.Data), "page %s", page)
		assert.False(t, env.Pagination.HasMore)
		assert.Equal(t, 3, env.Pagination.Total)
	}
}

func TestSearchHandler_RejectsBadQuery(t *testing.T) {
	r, _ := newSearchAPI(1)

	for _, q := range []string{
		"available_date=24/12/2026",
		"specialties=astronaut",
		"sort_by=cheapest",
		"min_rating=7",
		"min_price=900&max_price=100",
	} {
		code, env := searchCall(t, r, q)
		assert.Equal(t, http.StatusBadRequest, code, q)
		require.NotNil(t, env.Error, q)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code, q)
	}
}
