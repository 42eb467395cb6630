package search

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

const (
	DefaultLimit = 12
	MaxLimit     = 50
)

type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortRating     SortKey = "rating"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortExperience SortKey = "experience"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortRating, SortPriceAsc, SortPriceDesc, SortExperience:
		return k, nil
	}
	return "", apperror.Validation("некорректная сортировка: " + s)
}

type SearchFreelancersInput struct {
	Term          string
	Specialties   []string
	City          string
	State         string
	MinPrice      *float64
	MaxPrice      *float64
	MinRating     *float64
	AvailableDate *time.Time
	SortBy        string
	Page          int
	Limit         int
}

type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasMore    bool
}

type SearchFreelancersOutput struct {
	Results    []*entity.FreelancerSummary
	Pagination Pagination
}

type SearchFreelancersUseCase struct {
	freelancerRepo repository.FreelancerRepository
}

func NewSearchFreelancersUseCase(freelancerRepo repository.FreelancerRepository) *SearchFreelancersUseCase {
	return &SearchFreelancersUseCase{freelancerRepo: freelancerRepo}
}

// Execute: хранилище фильтрует по рейтингу, цене, специализациям и дате,
// остальные предикаты, сортировка и пагинация применяются здесь.
func (uc *SearchFreelancersUseCase) Execute(ctx context.Context, input SearchFreelancersInput) (*SearchFreelancersOutput, error) {
	query, sortKey, err := buildQuery(input)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.freelancerRepo.Search(ctx, query)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeSearchFailed, "не удалось выполнить поиск, попробуйте ещё раз")
	}

	filtered := Filter(candidates, input.City, input.State, input.Term)
	Sort(filtered, sortKey)

	page, limit := normalizePage(input.Page, input.Limit)
	results, pagination := Paginate(filtered, page, limit)
	return &SearchFreelancersOutput{Results: results, Pagination: pagination}, nil
}

func buildQuery(input SearchFreelancersInput) (repository.FreelancerQuery, SortKey, error) {
	sortKey, err := ParseSortKey(input.SortBy)
	if err != nil {
		return repository.FreelancerQuery{}, "", err
	}
	specialties, err := valueobject.ParseSpecialties(input.Specialties)
	if err != nil {
		return repository.FreelancerQuery{}, "", err
	}
	price, err := valueobject.NewPriceRange(input.MinPrice, input.MaxPrice)
	if err != nil {
		return repository.FreelancerQuery{}, "", err
	}
	if input.MinRating != nil && (*input.MinRating < 0 || *input.MinRating > 5) {
		return repository.FreelancerQuery{}, "", apperror.Validation("минимальный рейтинг должен быть от 0 до 5")
	}
	return repository.FreelancerQuery{
		MinRating:     input.MinRating,
		Price:         price,
		Specialties:   specialties,
		AvailableDate: input.AvailableDate,
	}, sortKey, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Filter применяет город, штат и текстовый запрос без учёта регистра.
func Filter(candidates []*entity.FreelancerSummary, city, state, term string) []*entity.FreelancerSummary {
	city = strings.ToLower(strings.TrimSpace(city))
	state = strings.ToLower(strings.TrimSpace(state))
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]*entity.FreelancerSummary, 0, len(candidates))
	for _, c := range candidates {
		if city != "" && !strings.Contains(strings.ToLower(c.City), city) {
			continue
		}
		if state != "" && !strings.Contains(strings.ToLower(c.State), state) {
			continue
		}
		if term != "" && !matchesTerm(c, term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesTerm(c *entity.FreelancerSummary, term string) bool {
	if strings.Contains(strings.ToLower(c.DisplayName), term) || strings.Contains(strings.ToLower(c.Bio), term) {
		return true
	}
	for _, s := range c.Specialties {
		if valueobject.MatchLabel(s, term) {
			return true
		}
	}
	return false
}

// Sort упорядочивает выдачу; при равенстве ключа порядок задаёт id.
func Sort(items []*entity.FreelancerSummary, key SortKey) {
	byID := func(a, b *entity.FreelancerSummary) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	}
	var primary func(a, b *entity.FreelancerSummary) int
	switch key {
	case SortRating:
		primary = func(a, b *entity.FreelancerSummary) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortPriceAsc:
		primary = func(a, b *entity.FreelancerSummary) int { return compareRate(a.HourlyRate, b.HourlyRate, false) }
	case SortPriceDesc:
		primary = func(a, b *entity.FreelancerSummary) int { return compareRate(a.HourlyRate, b.HourlyRate, true) }
	case SortExperience:
		primary = func(a, b *entity.FreelancerSummary) int { return cmp.Compare(b.YearsExperience, a.YearsExperience) }
	default:
		primary = func(a, b *entity.FreelancerSummary) int {
			if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
				return c
			}
			return cmp.Compare(b.TotalReviews, a.TotalReviews)
		}
	}
	slices.SortFunc(items, func(a, b *entity.FreelancerSummary) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return byID(a, b)
	})
}

// compareRate ставит фрилансеров без ставки в конец при любом направлении.
func compareRate(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case desc:
		return cmp.Compare(*b, *a)
	default:
		return cmp.Compare(*a, *b)
	}
}

// Paginate режет отфильтрованный список; страница за пределами даёт пустой срез.
func Paginate(items []*entity.FreelancerSummary, page, limit int) ([]*entity.FreelancerSummary, Pagination) {
	total := len(items)
	totalPages := (total + limit - 1) / limit
	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}

	if page > totalPages {
		return []*entity.FreelancerSummary{}, p
	}
	offset := (page - 1) * limit
	end := min(offset+limit, total)
	return items[offset:end], p
}
