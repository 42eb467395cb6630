package offer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type CreateOfferInput struct {
	FreelancerID  uuid.UUID
	Specialty     string
	Title         string
	Description   string
	EventDate     time.Time
	EventTime     *string
	Location      string
	DurationHours *float64
	Budget        float64
}

type CreateOfferUseCase struct {
	offerRepo      repository.OfferRepository
	profileRepo    repository.ProfileRepository
	freelancerRepo repository.FreelancerRepository
	events         repository.EventPublisher
}

func NewCreateOfferUseCase(
	offerRepo repository.OfferRepository,
	profileRepo repository.ProfileRepository,
	freelancerRepo repository.FreelancerRepository,
	events repository.EventPublisher,
) *CreateOfferUseCase {
	return &CreateOfferUseCase{
		offerRepo:      offerRepo,
		profileRepo:    profileRepo,
		freelancerRepo: freelancerRepo,
		events:         events,
	}
}

func (uc *CreateOfferUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateOfferInput) (*entity.Offer, error) {
	offer, err := entity.NewOffer(actor, entity.OfferDraft{
		FreelancerID:  input.FreelancerID,
		Specialty:     input.Specialty,
		Title:         input.Title,
		Description:   input.Description,
		EventDate:     input.EventDate,
		EventTime:     input.EventTime,
		Location:      input.Location,
		DurationHours: input.DurationHours,
		Budget:        input.Budget,
	})
	if err != nil {
		return nil, err
	}

	client, err := uc.profileRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if client.Role != valueobject.RoleClient {
		return nil, apperror.New(apperror.ErrCodeForbidden, "создавать предложения может только клиент")
	}

	if _, err := uc.freelancerRepo.FindByID(ctx, input.FreelancerID); err != nil {
		return nil, err
	}

	if err := uc.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, entity.OfferCreatedEvent(offer))
	return offer, nil
}

type GetOfferUseCase struct {
	offerRepo repository.OfferRepository
}

func NewGetOfferUseCase(offerRepo repository.OfferRepository) *GetOfferUseCase {
	return &GetOfferUseCase{offerRepo: offerRepo}
}

func (uc *GetOfferUseCase) Execute(ctx context.Context, actor entity.Actor, offerID uuid.UUID) (*entity.Offer, error) {
	offer, err := uc.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.IsParticipant(actor.ID) {
		return nil, apperror.ErrForbidden
	}
	return offer, nil
}

type ListOffersInput struct {
	Status *string
	Limit  int
	Offset int
}

type ListOffersUseCase struct {
	offerRepo repository.OfferRepository
}

func NewListOffersUseCase(offerRepo repository.OfferRepository) *ListOffersUseCase {
	return &ListOffersUseCase{offerRepo: offerRepo}
}

// Execute возвращает предложения, где actor клиент или фрилансер.
func (uc *ListOffersUseCase) Execute(ctx context.Context, actor entity.Actor, input ListOffersInput) ([]*entity.Offer, int, error) {
	filter := repository.OfferFilter{
		ParticipantID: actor.ID,
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if input.Status != nil && *input.Status != "" {
		status, err := valueobject.NewOfferStatus(*input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}
	return uc.offerRepo.List(ctx, filter)
}
