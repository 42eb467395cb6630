package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

type ReceivableRepository interface {
	Create(ctx context.Context, receivable *entity.Receivable) error
	Update(ctx context.Context, receivable *entity.Receivable) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *valueobject.ReceivableStatus) ([]*entity.Receivable, error)
	// MarkOverdue переводит pending с due_date раньше today в overdue и возвращает число строк.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}
