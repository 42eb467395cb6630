package entity

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

// Actor: проверенная личность вызывающего, передаётся в каждый сценарий явно.
type Actor struct {
	ID   uuid.UUID
	Role valueobject.Role
}

func NewActor(id uuid.UUID, role string) (Actor, error) {
	r, err := valueobject.NewRole(role)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: r}, nil
}

func (a Actor) IsClient() bool {
	return a.Role == valueobject.RoleClient
}

func (a Actor) IsFreelancer() bool {
	return a.Role == valueobject.RoleFreelancer
}
