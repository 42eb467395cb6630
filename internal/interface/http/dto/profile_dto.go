package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
)

type CreateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"max=100"`
}

type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,max=100"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	State         *string `json:"state" binding:"omitempty,max=100"`
	AvatarURL     *string `json:"avatar_url" binding:"omitempty,max=500"`
	WhatsAppOptIn *bool   `json:"whatsapp_opt_in"`
}

func (r UpdateProfileRequest) ToPatch() entity.ProfilePatch {
	return entity.ProfilePatch{
		DisplayName:   r.DisplayName,
		City:          r.City,
		State:         r.State,
		AvatarURL:     r.AvatarURL,
		WhatsAppOptIn: r.WhatsAppOptIn,
	}
}

type UpdateFreelancerRequest struct {
	Bio             string   `json:"bio" binding:"max=1000"`
	HourlyRate      *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	YearsExperience int      `json:"years_experience" binding:"gte=0,lte=80"`
	Equipment       string   `json:"equipment" binding:"max=2000"`
}

func (r UpdateFreelancerRequest) ToDetails() entity.FreelancerDetails {
	return entity.FreelancerDetails{
		Bio:             r.Bio,
		HourlyRate:      r.HourlyRate,
		YearsExperience: r.YearsExperience,
		Equipment:       r.Equipment,
	}
}

type ReplaceSpecialtiesRequest struct {
	Specialties []string `json:"specialties" binding:"required,max=16,dive,specialty"`
}

type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	AvatarURL     *string   `json:"avatar_url"`
	WhatsAppOptIn bool      `json:"whatsapp_opt_in"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type FreelancerDetailsResponse struct {
	Bio             string                      `json:"bio"`
	HourlyRate      *float64                    `json:"hourly_rate"`
	YearsExperience int                         `json:"years_experience"`
	Equipment       string                      `json:"equipment"`
	Rating          float64                     `json:"rating"`
	TotalReviews    int                         `json:"total_reviews"`
	TotalJobs       int                         `json:"total_jobs"`
	IsPro           bool                        `json:"is_pro"`
	ProfileStrength int                         `json:"profile_strength"`
	Specialties     []valueobject.SpecialtyInfo `json:"specialties"`
}

// MeResponse: собственный профиль; freelancer заполнен только для роли freelancer.
type MeResponse struct {
	Profile    ProfileResponse            `json:"profile"`
	Freelancer *FreelancerDetailsResponse `json:"freelancer,omitempty"`
}

type FreelancerPublicResponse struct {
	Profile    ProfileResponse            `json:"profile"`
	Freelancer *FreelancerDetailsResponse `json:"freelancer"`
	Portfolio  []PortfolioItemResponse    `json:"portfolio"`
}

func ToProfileResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:            p.ID,
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		Role:          string(p.Role),
		City:          p.City,
		State:         p.State,
		AvatarURL:     p.AvatarURL,
		WhatsAppOptIn: p.WhatsAppOptIn,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToSpecialtyInfos(codes []valueobject.Specialty) []valueobject.SpecialtyInfo {
	return mapSlice(codes, func(code valueobject.Specialty) valueobject.SpecialtyInfo {
		label, _ := valueobject.Label(code)
		return valueobject.SpecialtyInfo{Code: code, Label: label}
	})
}

func ToFreelancerDetailsResponse(f *entity.FreelancerProfile) *FreelancerDetailsResponse {
	if f == nil {
		return nil
	}
	return &FreelancerDetailsResponse{
		Bio:             f.Bio,
		HourlyRate:      f.HourlyRate,
		YearsExperience: f.YearsExperience,
		Equipment:       f.Equipment,
		Rating:          f.Rating,
		TotalReviews:    f.TotalReviews,
		TotalJobs:       f.TotalJobs,
		IsPro:           f.IsPro,
		ProfileStrength: f.ProfileStrength,
		Specialties:     ToSpecialtyInfos(f.Specialties),
	}
}

func ToMeResponse(p *entity.Profile, f *entity.FreelancerProfile) MeResponse {
	return MeResponse{
		Profile:    ToProfileResponse(p),
		Freelancer: ToFreelancerDetailsResponse(f),
	}
}

// ToFreelancerPublicResponse скрывает email: карточка доступна без авторизации.
func ToFreelancerPublicResponse(v *entity.FreelancerView) FreelancerPublicResponse {
	profile := ToProfileResponse(v.Profile)
	profile.Email = ""
	return FreelancerPublicResponse{
		Profile:    profile,
		Freelancer: ToFreelancerDetailsResponse(v.Freelancer),
		Portfolio:  ToPortfolioItemResponses(v.Portfolio),
	}
}
