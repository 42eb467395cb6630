package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

type ProfileRepository interface {
	// Create сохраняет профиль; для фрилансера в той же транзакции создаётся пустой FreelancerProfile.
	Create(ctx context.Context, profile *entity.Profile) error
	Update(ctx context.Context, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error)
}

// FreelancerQuery: предикаты, которые хранилище применяет само по индексам.
type FreelancerQuery struct {
	MinRating     *float64
	Price         valueobject.PriceRange
	Specialties   []valueobject.Specialty
	AvailableDate *time.Time
}

type FreelancerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FreelancerProfile, error)
	UpdateDetails(ctx context.Context, freelancer *entity.FreelancerProfile) error
	// ReplaceSpecialties применяет разницу между текущим и новым набором в одной транзакции.
	ReplaceSpecialties(ctx context.Context, freelancerID uuid.UUID, specialties []valueobject.Specialty) (added, removed int, err error)
	UpdateStrength(ctx context.Context, freelancerID uuid.UUID, strength int) error
	Search(ctx context.Context, query FreelancerQuery) ([]*entity.FreelancerSummary, error)
}

type PortfolioRepository interface {
	Create(ctx context.Context, item *entity.PortfolioItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PortfolioItem, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.PortfolioItem, error)
	MaxDisplayOrder(ctx context.Context, freelancerID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Reorder присваивает display_order по позиции id в срезе.
	Reorder(ctx context.Context, freelancerID uuid.UUID, ids []uuid.UUID) error
}
