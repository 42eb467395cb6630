package entity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/pkg/apperror"
)

type Profile struct {
	ID            uuid.UUID
	DisplayName   string
	Email         string
	Role          valueobject.Role
	City          string
	State         string
	AvatarURL     *string
	WhatsAppOptIn bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewProfile(actor Actor, displayName, email, city, state string) (*Profile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, apperror.Validation("имя обязательно")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation("некорректный email")
	}
	if !actor.Role.IsValid() {
		return nil, apperror.Validation("некорректная роль пользователя")
	}

	now := time.Now()
	return &Profile{
		ID:          actor.ID,
		DisplayName: displayName,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Role:        actor.Role,
		City:        strings.TrimSpace(city),
		State:       strings.TrimSpace(state),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ProfilePatch: частичное обновление, nil означает "не менять".
type ProfilePatch struct {
	DisplayName   *string
	City          *string
	State         *string
	AvatarURL     *string
	WhatsAppOptIn *bool
}

func (p *Profile) Apply(patch ProfilePatch) error {
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name == "" {
			return apperror.Validation("имя обязательно")
		}
		p.DisplayName = name
	}
	if patch.City != nil {
		p.City = strings.TrimSpace(*patch.City)
	}
	if patch.State != nil {
		p.State = strings.TrimSpace(*patch.State)
	}
	if patch.AvatarURL != nil {
		if url := strings.TrimSpace(*patch.AvatarURL); url == "" {
			p.AvatarURL = nil
		} else {
			p.AvatarURL = &url
		}
	}
	if patch.WhatsAppOptIn != nil {
		p.WhatsAppOptIn = *patch.WhatsAppOptIn
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Profile) IsFreelancer() bool {
	return p.Role == valueobject.RoleFreelancer
}

// FreelancerProfile расширяет Profile с ролью freelancer.
// Rating, TotalReviews и TotalJobs пересчитываются только агрегацией отзывов и бронирований.
type FreelancerProfile struct {
	ProfileID       uuid.UUID
	Bio             string
	HourlyRate      *float64
	YearsExperience int
	Equipment       string
	Rating          float64
	TotalReviews    int
	TotalJobs       int
	IsPro           bool
	ProfileStrength int
	UpdatedAt       time.Time

	Specialties []valueobject.Specialty
}

func NewFreelancerProfile(profileID uuid.UUID) *FreelancerProfile {
	return &FreelancerProfile{
		ProfileID: profileID,
		UpdatedAt: time.Now(),
	}
}

type FreelancerDetails struct {
	Bio             string
	HourlyRate      *float64
	YearsExperience int
	Equipment       string
}

func (f *FreelancerProfile) UpdateDetails(d FreelancerDetails) error {
	if d.HourlyRate != nil && *d.HourlyRate < 0 {
		return apperror.Validation("ставка не может быть отрицательной")
	}
	if d.HourlyRate != nil && *d.HourlyRate > valueobject.MaxAmount {
		return apperror.Validation("ставка слишком велика")
	}
	if d.YearsExperience < 0 {
		return apperror.Validation("опыт не может быть отрицательным")
	}
	f.Bio = strings.TrimSpace(d.Bio)
	f.HourlyRate = d.HourlyRate
	f.YearsExperience = d.YearsExperience
	f.Equipment = strings.TrimSpace(d.Equipment)
	f.UpdatedAt = time.Now()
	return nil
}

const longBioThreshold = 80

// ComputeProfileStrength возвращает заполненность профиля от 0 до 100.
func ComputeProfileStrength(p *Profile, f *FreelancerProfile, portfolioItems int) int {
	score := 0
	if f.Bio != "" {
		score += 10
		if len([]rune(f.Bio)) >= longBioThreshold {
			score += 10
		}
	}
	if f.HourlyRate != nil {
		score += 10
	}
	if f.YearsExperience > 0 {
		score += 10
	}
	if f.Equipment != "" {
		score += 10
	}
	if len(f.Specialties) > 0 {
		score += 15
	}
	if p != nil {
		if p.AvatarURL != nil {
			score += 10
		}
		if p.City != "" && p.State != "" {
			score += 10
		}
	}
	if portfolioItems > 0 {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}

// FreelancerSummary: строка выдачи поиска.
type FreelancerSummary struct {
	ID              uuid.UUID
	DisplayName     string
	City            string
	State           string
	AvatarURL       *string
	Bio             string
	HourlyRate      *float64
	YearsExperience int
	Rating          float64
	TotalReviews    int
	TotalJobs       int
	IsPro           bool
	ProfileStrength int
	Specialties     []valueobject.Specialty
}

// FreelancerView: публичная карточка фрилансера.
type FreelancerView struct {
	Profile    *Profile
	Freelancer *FreelancerProfile
	Portfolio  []*PortfolioItem
}
