package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type ReceivableInput struct {
	ServiceTitle string
	ClientName   string
	ServiceDate  time.Time
	Amount       float64
	DueDate      *time.Time
	Notes        string
}

func (in ReceivableInput) fields() entity.ReceivableFields {
	return entity.ReceivableFields{
		ServiceTitle: in.ServiceTitle,
		ClientName:   in.ClientName,
		ServiceDate:  in.ServiceDate,
		Amount:       in.Amount,
		DueDate:      in.DueDate,
		Notes:        in.Notes,
	}
}

// LedgerUseCase: CRUD по внешним платежам фрилансера. Чужие записи недоступны.
type LedgerUseCase struct {
	repo repository.ReceivableRepository
	now  func() time.Time
}

func NewLedgerUseCase(repo repository.ReceivableRepository) *LedgerUseCase {
	return &LedgerUseCase{repo: repo, now: time.Now}
}

func (uc *LedgerUseCase) Create(ctx context.Context, actor entity.Actor, input ReceivableInput) (*entity.Receivable, error) {
	r, err := entity.NewReceivable(actor, input.fields())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *LedgerUseCase) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Receivable, error) {
	r, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsOwnedBy(actor.ID) {
		return nil, apperror.ErrForbidden
	}
	return r, nil
}

func (uc *LedgerUseCase) List(ctx context.Context, actor entity.Actor, status *string) ([]*entity.Receivable, error) {
	if !actor.IsFreelancer() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "учёт платежей доступен только фрилансерам")
	}
	var filter *valueobject.ReceivableStatus
	if status != nil && *status != "" {
		s, err := valueobject.NewReceivableStatus(*status)
		if err != nil {
			return nil, err
		}
		filter = &s
	}
	return uc.repo.ListByOwner(ctx, actor.ID, filter)
}

func (uc *LedgerUseCase) Update(ctx context.Context, actor entity.Actor, id uuid.UUID, input ReceivableInput) (*entity.Receivable, error) {
	r, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.Update(input.fields()); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateStatus меняет статус без ограничений на направление перехода.
func (uc *LedgerUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, status string) (*entity.Receivable, error) {
	s, err := valueobject.NewReceivableStatus(status)
	if err != nil {
		return nil, err
	}
	r, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := r.SetStatus(s); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *LedgerUseCase) Delete(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if _, err := uc.Get(ctx, actor, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *LedgerUseCase) Summary(ctx context.Context, actor entity.Actor) (entity.ReceivableSummary, error) {
	items, err := uc.List(ctx, actor, nil)
	if err != nil {
		return entity.ReceivableSummary{}, err
	}
	return entity.SummarizeReceivables(items), nil
}

// SweepOverdue переводит просроченные pending в overdue.
func (uc *LedgerUseCase) SweepOverdue(ctx context.Context) (int64, error) {
	return uc.repo.MarkOverdue(ctx, uc.now())
}
