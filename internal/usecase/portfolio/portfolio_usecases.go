package portfolio

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelaav-backend/internal/storage"
)

type strengthRefresher interface {
	Refresh(ctx context.Context, freelancerID uuid.UUID) (int, error)
}

type AddItemInput struct {
	Title       string
	Description string
	MediaURL    string
	MediaKind   string
}

type PortfolioUseCase struct {
	repo     repository.PortfolioRepository
	strength strengthRefresher
}

func NewPortfolioUseCase(repo repository.PortfolioRepository, strength strengthRefresher) *PortfolioUseCase {
	return &PortfolioUseCase{repo: repo, strength: strength}
}

// AddItem добавляет работу в конец списка. Тип медиа без явного значения определяется по ссылке.
func (uc *PortfolioUseCase) AddItem(ctx context.Context, actor entity.Actor, input AddItemInput) (*entity.PortfolioItem, error) {
	if !actor.IsFreelancer() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "портфолио доступно только фрилансерам")
	}

	var kind valueobject.MediaKind
	var err error
	if input.MediaKind != "" {
		kind, err = valueobject.NewMediaKind(input.MediaKind)
	} else {
		kind, err = storage.DetectMediaKind(input.MediaURL)
	}
	if err != nil {
		return nil, err
	}

	maxOrder, err := uc.repo.MaxDisplayOrder(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	item, err := entity.NewPortfolioItem(actor.ID, input.Title, input.Description, input.MediaURL, kind, maxOrder+1)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	if _, err := uc.strength.Refresh(ctx, actor.ID); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *PortfolioUseCase) List(ctx context.Context, freelancerID uuid.UUID) ([]*entity.PortfolioItem, error) {
	return uc.repo.ListByFreelancer(ctx, freelancerID)
}

func (uc *PortfolioUseCase) DeleteItem(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsOwnedBy(actor.ID) {
		return apperror.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	_, err = uc.strength.Refresh(ctx, actor.ID)
	return err
}

// Reorder принимает полный список id работ владельца в новом порядке.
func (uc *PortfolioUseCase) Reorder(ctx context.Context, actor entity.Actor, ids []uuid.UUID) ([]*entity.PortfolioItem, error) {
	items, err := uc.repo.ListByFreelancer(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(items) {
		return nil, apperror.Validation("нужно передать все работы портфолио")
	}
	owned := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		owned[it.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return nil, apperror.Validation("работа не принадлежит портфолио: " + id.String())
		}
		if _, dup := seen[id]; dup {
			return nil, apperror.Validation("повторяющийся id в списке")
		}
		seen[id] = struct{}{}
	}

	if err := uc.repo.Reorder(ctx, actor.ID, ids); err != nil {
		return nil, err
	}
	return uc.repo.ListByFreelancer(ctx, actor.ID)
}
