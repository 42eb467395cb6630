package search_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/search"
)

// mockFreelancerRepository повторяет серверную префильтрацию в памяти.
type mockFreelancerRepository struct {
	repository.FreelancerRepository
	population []*entity.FreelancerSummary
	err        error
	lastQuery  repository.FreelancerQuery
}

func (m *mockFreelancerRepository) Search(ctx context.Context, q repository.FreelancerQuery) ([]*entity.FreelancerSummary, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	var out []*entity.FreelancerSummary
	for _, f := range m.population {
		if q.MinRating != nil && f.Rating < *q.MinRating {
			continue
		}
		if !q.Price.Contains(f.HourlyRate) {
			continue
		}
		if len(q.Specialties) > 0 && !slices.ContainsFunc(q.Specialties, func(s valueobject.Specialty) bool {
			return slices.Contains(f.Specialties, s)
		}) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

func freelancer(name, city string, rate float64, rating float64, specialties ...valueobject.Specialty) *entity.FreelancerSummary {
	return &entity.FreelancerSummary{
		ID:          uuid.New(),
		DisplayName: name,
		City:        city,
		State:       "SP",
		HourlyRate:  ptr(rate),
		Rating:      rating,
		Specialties: specialties,
	}
}

func population20() []*entity.FreelancerSummary {
	var pop []*entity.FreelancerSummary
	// 3 подходящих оператора камеры
	pop = append(pop,
		freelancer("Ana", "São Paulo", 500, 4.5, valueobject.SpecialtyCameraOperator),
		freelancer("Bruno", "Campinas", 750, 4.9, valueobject.SpecialtyCameraOperator, valueobject.SpecialtyDronePilot),
		freelancer("Carla", "Santos", 1000, 3.8, valueobject.SpecialtyCameraOperator),
	)
	// операторы вне ценового диапазона
	pop = append(pop,
		freelancer("Diego", "São Paulo", 300, 5, valueobject.SpecialtyCameraOperator),
		freelancer("Elisa", "São Paulo", 1200, 5, valueobject.SpecialtyCameraOperator),
	)
	for i := 0; i < 15; i++ {
		pop = append(pop, freelancer(fmt.Sprintf("Audio %d", i), "Rio de Janeiro", 600, 4, valueobject.SpecialtyAudioEngineer))
	}
	return pop
}

func TestSearchFreelancers_SpecialtyAndPriceRange(t *testing.T) {
	repo := &mockFreelancerRepository{population: population20()}
	uc := search.NewSearchFreelancersUseCase(repo)

	out, err := uc.Execute(context.Background(), search.SearchFreelancersInput{
		Specialties: []string{"camera_operator"},
		MinPrice:    ptr(500.0),
		MaxPrice:    ptr(1000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Pagination.Total)
	assert.Equal(t, 1, out.Pagination.TotalPages)
	assert.False(t, out.Pagination.HasMore)

	// relevance: рейтинг по убыванию
	names := []string{out.Results[0].DisplayName, out.Results[1].DisplayName, out.Results[2].DisplayName}
	assert.Equal(t, []string{"Bruno", "Ana", "Carla"}, names)
	assert.Equal(t, []valueobject.Specialty{valueobject.SpecialtyCameraOperator}, repo.lastQuery.Specialties)
}

func TestSearchFreelancers_EmptyFilterReturnsPopulation(t *testing.T) {
	uc := search.NewSearchFreelancersUseCase(&mockFreelancerRepository{population: population20()})

	out, err := uc.Execute(context.Background(), search.SearchFreelancersInput{})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Pagination.Total)
	assert.Equal(t, search.DefaultLimit, out.Pagination.Limit)
	assert.Len(t, out.Results, search.DefaultLimit)
	assert.Equal(t, 2, out.Pagination.TotalPages)
	assert.True(t, out.Pagination.HasMore)
}

func TestSearchFreelancers_Pagination(t *testing.T) {
	uc := search.NewSearchFreelancersUseCase(&mockFreelancerRepository{population: population20()})

	for _, tc := range []struct {
		page, limit, wantLen int
		wantMore             bool
	}{
		{page: 1, limit: 8, wantLen: 8, wantMore: true},
		{page: 3, limit: 8, wantLen: 4, wantMore: false},
		{page: 4, limit: 8, wantLen: 0, wantMore: false},
		{page: 1, limit: 500, wantLen: 20, wantMore: false},
	} {
		out, err := uc.Execute(context.Background(), search.SearchFreelancersInput{Page: tc.page, Limit: tc.limit})
		require.NoError(t, err)
		assert.Len(t, out.Results, tc.wantLen, "page %d", tc.page)
		assert.NotNil(t, out.Results)
		assert.Equal(t, 20, out.Pagination.Total)
		assert.Equal(t, tc.wantMore, out.Pagination.HasMore, "page %d", tc.page)
		assert.Equal(t, out.Pagination.Page*out.Pagination.Limit < out.Pagination.Total, out.Pagination.HasMore)
	}
}

func TestSearchFreelancers_HugePageIsEmpty(t *testing.T) {
	uc := search.NewSearchFreelancersUseCase(&mockFreelancerRepository{population: population20()})

	for _, limit := range []int{0, 1, search.MaxLimit} {
		out, err := uc.Execute(context.Background(), search.SearchFreelancersInput{Page: math.MaxInt, Limit: limit})
		require.NoError(t, err)
		assert.NotNil(t, out.Results)
		assert.Empty(t, out.Results)
		assert.Equal(t, math.MaxInt, out.Pagination.Page)
		assert.False(t, out.Pagination.HasMore)
	}

	items, p := search.Paginate(nil, math.MaxInt, search.DefaultLimit)
	assert.Empty(t, items)
	assert.Zero(t, p.TotalPages)
}

func TestSearchFreelancers_FiltersCommute(t *testing.T) {
	pop := population20()
	pop = append(pop, freelancer("Fábio", "são paulo", 800, 4.1, valueobject.SpecialtyAudioEngineer))
	uc := search.NewSearchFreelancersUseCase(&mockFreelancerRepository{population: pop})
	ctx := context.Background()

	both, err := uc.Execute(ctx, search.SearchFreelancersInput{City: "São Paulo", Specialties: []string{"audio_engineer"}, Limit: 50})
	require.NoError(t, err)

	byCity, err := uc.Execute(ctx, search.SearchFreelancersInput{City: "São Paulo", Limit: 50})
	require.NoError(t, err)
	var sequential []uuid.UUID
	for _, f := range byCity.Results {
		if slices.Contains(f.Specialties, valueobject.SpecialtyAudioEngineer) {
			sequential = append(sequential, f.ID)
		}
	}

	require.Len(t, both.Results, 1)
	assert.Equal(t, sequential, []uuid.UUID{both.Results[0].ID})
}

func TestSearchFreelancers_TermMatchesNameBioAndLabels(t *testing.T) {
	a := freelancer("Marina Luz", "Recife", 400, 4, valueobject.SpecialtyLightingTechnician)
	b := freelancer("Pedro", "Recife", 400, 4, valueobject.SpecialtyDJ)
	b.Bio = "Especialista em MARINAS e barcos"
	c := freelancer("João", "Recife", 400, 4, valueobject.SpecialtyDronePilot)
	uc := search.NewSearchFreelancersUseCase(&mockFreelancerRepository{population: []*entity.FreelancerSummary{a, b, c}})

	out, err := uc.Execute(context.Background(), search.SearchFreelancersInput{Term: "marina"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Pagination.Total)

	out, err = uc.Execute(context.Background(), search.SearchFreelancersInput{Term: "drone"})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, c.ID, out.Results[0].ID)
}

func TestSort_KeysAndTieBreak(t *testing.T) {
	a := freelancer("A", "", 300, 4, valueobject.SpecialtyDJ)
	b := freelancer("B", "", 100, 4, valueobject.SpecialtyDJ)
	c := freelancer("C", "", 0, 5, valueobject.SpecialtyDJ)
	c.HourlyRate = nil
	a.YearsExperience, b.YearsExperience, c.YearsExperience = 2, 10, 5

	items := []*entity.FreelancerSummary{a, b, c}
	search.Sort(items, search.SortPriceAsc)
	assert.Equal(t, []*entity.FreelancerSummary{b, a, c}, items)

	search.Sort(items, search.SortPriceDesc)
	assert.Equal(t, []*entity.FreelancerSummary{a, b, c}, items)

	search.Sort(items, search.SortExperience)
	assert.Equal(t, []*entity.FreelancerSummary{b, c, a}, items)

	search.Sort(items, search.SortRating)
	assert.Equal(t, c, items[0])
	// a и b равны по рейтингу, порядок по id
	first, second := a, b
	if a.ID.String() > b.ID.String() {
		first, second = b, a
	}
	assert.Equal(t, []*entity.FreelancerSummary{c, first, second}, items)
}

func TestSearchFreelancers_Failures(t *testing.T) {
	repo := &mockFreelancerRepository{err: errors.New("connection reset")}
	uc := search.NewSearchFreelancersUseCase(repo)

	_, err := uc.Execute(context.Background(), search.SearchFreelancersInput{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeSearchFailed, appErr.Code)
	assert.True(t, apperror.IsTransient(err))

	_, err = uc.Execute(context.Background(), search.SearchFreelancersInput{Specialties: []string{"astronaut"}})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), search.SearchFreelancersInput{SortBy: "random"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), search.SearchFreelancersInput{MinRating: ptr(7.0)})
	assert.True(t, apperror.IsValidation(err))
}
