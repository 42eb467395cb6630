package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

var errNotFreelancer = apperror.New(apperror.ErrCodeForbidden, "раздел доступен только фрилансерам")

// StrengthRefresher пересчитывает profile_strength после любого изменения профиля фрилансера.
type StrengthRefresher struct {
	profileRepo    repository.ProfileRepository
	freelancerRepo repository.FreelancerRepository
	portfolioRepo  repository.PortfolioRepository
}

func NewStrengthRefresher(profileRepo repository.ProfileRepository, freelancerRepo repository.FreelancerRepository, portfolioRepo repository.PortfolioRepository) *StrengthRefresher {
	return &StrengthRefresher{profileRepo: profileRepo, freelancerRepo: freelancerRepo, portfolioRepo: portfolioRepo}
}

func (s *StrengthRefresher) Refresh(ctx context.Context, freelancerID uuid.UUID) (int, error) {
	p, err := s.profileRepo.FindByID(ctx, freelancerID)
	if err != nil {
		return 0, err
	}
	f, err := s.freelancerRepo.FindByID(ctx, freelancerID)
	if err != nil {
		return 0, err
	}
	items, err := s.portfolioRepo.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return 0, err
	}

	strength := entity.ComputeProfileStrength(p, f, len(items))
	if strength == f.ProfileStrength {
		return strength, nil
	}
	if err := s.freelancerRepo.UpdateStrength(ctx, freelancerID, strength); err != nil {
		return 0, err
	}
	return strength, nil
}

type CreateProfileInput struct {
	DisplayName string
	Email       string
	City        string
	State       string
}

type CreateProfileUseCase struct {
	profileRepo repository.ProfileRepository
	strength    *StrengthRefresher
}

func NewCreateProfileUseCase(profileRepo repository.ProfileRepository, strength *StrengthRefresher) *CreateProfileUseCase {
	return &CreateProfileUseCase{profileRepo: profileRepo, strength: strength}
}

// Execute создаёт профиль при первом входе; роль берётся из токена.
func (uc *CreateProfileUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateProfileInput) (*entity.Profile, error) {
	existing, err := uc.profileRepo.FindByID(ctx, actor.ID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "профиль уже создан")
	}

	p, err := entity.NewProfile(actor, input.DisplayName, input.Email, input.City, input.State)
	if err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	if p.IsFreelancer() {
		if _, err := uc.strength.Refresh(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type GetProfileUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewGetProfileUseCase(profileRepo repository.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: profileRepo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, actor entity.Actor) (*entity.Profile, error) {
	return uc.profileRepo.FindByID(ctx, actor.ID)
}

type UpdateProfileUseCase struct {
	profileRepo repository.ProfileRepository
	strength    *StrengthRefresher
}

func NewUpdateProfileUseCase(profileRepo repository.ProfileRepository, strength *StrengthRefresher) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{profileRepo: profileRepo, strength: strength}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, actor entity.Actor, patch entity.ProfilePatch) (*entity.Profile, error) {
	p, err := uc.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(patch); err != nil {
		return nil, err
	}
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.IsFreelancer() {
		if _, err := uc.strength.Refresh(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

type UpdateFreelancerProfileUseCase struct {
	freelancerRepo repository.FreelancerRepository
	strength       *StrengthRefresher
}

func NewUpdateFreelancerProfileUseCase(freelancerRepo repository.FreelancerRepository, strength *StrengthRefresher) *UpdateFreelancerProfileUseCase {
	return &UpdateFreelancerProfileUseCase{freelancerRepo: freelancerRepo, strength: strength}
}

// Execute меняет только поля владельца; рейтинг, отзывы и число работ не трогаются.
func (uc *UpdateFreelancerProfileUseCase) Execute(ctx context.Context, actor entity.Actor, details entity.FreelancerDetails) (*entity.FreelancerProfile, error) {
	if !actor.IsFreelancer() {
		return nil, errNotFreelancer
	}
	f, err := uc.freelancerRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := f.UpdateDetails(details); err != nil {
		return nil, err
	}
	if err := uc.freelancerRepo.UpdateDetails(ctx, f); err != nil {
		return nil, err
	}
	strength, err := uc.strength.Refresh(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	f.ProfileStrength = strength
	return f, nil
}

type ReplaceSpecialtiesUseCase struct {
	freelancerRepo repository.FreelancerRepository
	strength       *StrengthRefresher
}

func NewReplaceSpecialtiesUseCase(freelancerRepo repository.FreelancerRepository, strength *StrengthRefresher) *ReplaceSpecialtiesUseCase {
	return &ReplaceSpecialtiesUseCase{freelancerRepo: freelancerRepo, strength: strength}
}

// Execute валидирует все коды до записи; неизвестный код отклоняет весь набор.
func (uc *ReplaceSpecialtiesUseCase) Execute(ctx context.Context, actor entity.Actor, codes []string) ([]valueobject.Specialty, error) {
	if !actor.IsFreelancer() {
		return nil, errNotFreelancer
	}
	specialties, err := valueobject.ParseSpecialties(codes)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.freelancerRepo.ReplaceSpecialties(ctx, actor.ID, specialties); err != nil {
		return nil, err
	}
	if _, err := uc.strength.Refresh(ctx, actor.ID); err != nil {
		return nil, err
	}
	return specialties, nil
}

type GetFreelancerUseCase struct {
	profileRepo    repository.ProfileRepository
	freelancerRepo repository.FreelancerRepository
	portfolioRepo  repository.PortfolioRepository
}

func NewGetFreelancerUseCase(profileRepo repository.ProfileRepository, freelancerRepo repository.FreelancerRepository, portfolioRepo repository.PortfolioRepository) *GetFreelancerUseCase {
	return &GetFreelancerUseCase{profileRepo: profileRepo, freelancerRepo: freelancerRepo, portfolioRepo: portfolioRepo}
}

func (uc *GetFreelancerUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.FreelancerView, error) {
	p, err := uc.profileRepo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrFreelancerNotFound
		}
		return nil, err
	}
	if !p.IsFreelancer() {
		return nil, apperror.ErrFreelancerNotFound
	}
	f, err := uc.freelancerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.portfolioRepo.ListByFreelancer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.FreelancerView{Profile: p, Freelancer: f, Portfolio: items}, nil
}
