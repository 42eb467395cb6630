package offer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/repository"
)

type TransitionOfferInput struct {
	OfferID      uuid.UUID
	Action       entity.OfferAction
	Reason       string
	CounterPrice *float64
}

type TransitionOfferUseCase struct {
	offerRepo repository.OfferRepository
	events    repository.EventPublisher
}

func NewTransitionOfferUseCase(offerRepo repository.OfferRepository, events repository.EventPublisher) *TransitionOfferUseCase {
	return &TransitionOfferUseCase{offerRepo: offerRepo, events: events}
}

// Execute проверяет права и статус, затем пишет переход с условием на прежний статус.
// Событие публикуется только после успешной записи, его доставка на результат не влияет.
func (uc *TransitionOfferUseCase) Execute(ctx context.Context, actor entity.Actor, input TransitionOfferInput) (*entity.Offer, error) {
	offer, err := uc.offerRepo.FindByID(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}

	from := offer.Status
	if err := offer.Apply(actor, input.Action, input.Reason, input.CounterPrice); err != nil {
		return nil, err
	}

	if err := uc.offerRepo.UpdateStatus(ctx, offer, from); err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, entity.OfferEvent(input.Action, offer, actor))
	return offer, nil
}
