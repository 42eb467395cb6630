package portfolio_test

import (
	"context"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/portfolio"
)

type mockPortfolioRepository struct {
	items []*entity.PortfolioItem
}

func (m *mockPortfolioRepository) Create(ctx context.Context, item *entity.PortfolioItem) error {
	m.items = append(m.items, item)
	return nil
}

func (m *mockPortfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, apperror.ErrPortfolioNotFound
}

func (m *mockPortfolioRepository) ListByFreelancer(ctx context.Context, id uuid.UUID) ([]*entity.PortfolioItem, error) {
	var out []*entity.PortfolioItem
	for _, it := range m.items {
		if it.FreelancerID == id {
			out = append(out, it)
		}
	}
	slices.SortFunc(out, func(a, b *entity.PortfolioItem) int { return a.DisplayOrder - b.DisplayOrder })
	return out, nil
}

func (m *mockPortfolioRepository) MaxDisplayOrder(ctx context.Context, id uuid.UUID) (int, error) {
	maxOrder := 0
	for _, it := range m.items {
		if it.FreelancerID == id && it.DisplayOrder > maxOrder {
			maxOrder = it.DisplayOrder
		}
	}
	return maxOrder, nil
}

func (m *mockPortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.items = slices.DeleteFunc(m.items, func(it *entity.PortfolioItem) bool { return it.ID == id })
	return nil
}

func (m *mockPortfolioRepository) Reorder(ctx context.Context, freelancerID uuid.UUID, ids []uuid.UUID) error {
	for i, id := range ids {
		it, _ := m.FindByID(ctx, id)
		it.DisplayOrder = i + 1
	}
	return nil
}

type countingRefresher struct{ calls int }

func (c *countingRefresher) Refresh(ctx context.Context, id uuid.UUID) (int, error) {
	c.calls++
	return 0, nil
}

func newPortfolio() (*portfolio.PortfolioUseCase, *mockPortfolioRepository, *countingRefresher) {
	repo := &mockPortfolioRepository{}
	strength := &countingRefresher{}
	return portfolio.NewPortfolioUseCase(repo, strength), repo, strength
}

func TestAddItem_OrderAndKindDetection(t *testing.T) {
	uc, _, strength := newPortfolio()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}

	first, err := uc.AddItem(ctx, owner, portfolio.AddItemInput{Title: "Clipe", MediaURL: "https://cdn.example.com/clipe.mp4?token=x"})
	require.NoError(t, err)
	assert.Equal(t, valueobject.MediaKindVideo, first.MediaKind)
	assert.Equal(t, 1, first.DisplayOrder)

	second, err := uc.AddItem(ctx, owner, portfolio.AddItemInput{Title: "Foto", MediaURL: "https://cdn.example.com/raw", MediaKind: "image"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.DisplayOrder)
	assert.Equal(t, 2, strength.calls)

	_, err = uc.AddItem(ctx, owner, portfolio.AddItemInput{Title: "Doc", MediaURL: "https://cdn.example.com/cv.pdf"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.AddItem(ctx, entity.Actor{ID: uuid.New(), Role: valueobject.RoleClient}, portfolio.AddItemInput{Title: "x", MediaURL: "a.jpg"})
	assert.True(t, apperror.IsForbidden(err))
}

func TestReorderAndDelete(t *testing.T) {
	uc, repo, _ := newPortfolio()
	ctx := context.Background()
	owner := entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}

	var ids []uuid.UUID
	for _, url := range []string{"a.jpg", "b.mp3", "c.mov"} {
		it, err := uc.AddItem(ctx, owner, portfolio.AddItemInput{Title: url, MediaURL: url})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}

	reordered, err := uc.Reorder(ctx, owner, []uuid.UUID{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, ids[2], reordered[0].ID)

	_, err = uc.Reorder(ctx, owner, []uuid.UUID{ids[0], ids[1]})
	assert.True(t, apperror.IsValidation(err))
	_, err = uc.Reorder(ctx, owner, []uuid.UUID{ids[0], ids[0], ids[1]})
	assert.True(t, apperror.IsValidation(err))

	intruder := entity.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}
	assert.True(t, apperror.IsForbidden(uc.DeleteItem(ctx, intruder, ids[0])))
	require.NoError(t, uc.DeleteItem(ctx, owner, ids[0]))
	assert.Len(t, repo.items, 2)

	list, err := uc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
