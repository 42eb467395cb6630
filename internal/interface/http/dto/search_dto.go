package dto

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/domain/valueobject"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/search"
)

// SearchFreelancersQuery: query-параметры GET /freelancers.
// specialties принимается как через запятую, так и повтором параметра.
type SearchFreelancersQuery struct {
	Term          string   `form:"q" binding:"max=200"`
	Specialties   []string `form:"specialties"`
	City          string   `form:"city" binding:"max=100"`
	State         string   `form:"state" binding:"max=100"`
	MinPrice      *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice      *float64 `form:"max_price" binding:"omitempty,gte=0"`
	MinRating     *float64 `form:"min_rating" binding:"omitempty,gte=0,lte=5"`
	AvailableDate *string  `form:"available_date"`
	SortBy        string   `form:"sort_by"`
	Page          int      `form:"page" binding:"omitempty,gte=1"`
	Limit         int      `form:"limit" binding:"omitempty,gte=1"`
}

func (q SearchFreelancersQuery) ToInput() (search.SearchFreelancersInput, error) {
	date, err := ParseDate(q.AvailableDate)
	if err != nil {
		return search.SearchFreelancersInput{}, err
	}
	var specialties []string
	for _, raw := range q.Specialties {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				specialties = append(specialties, s)
			}
		}
	}
	return search.SearchFreelancersInput{
		Term:          q.Term,
		Specialties:   specialties,
		City:          q.City,
		State:         q.State,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		MinRating:     q.MinRating,
		AvailableDate: date,
		SortBy:        q.SortBy,
		Page:          q.Page,
		Limit:         q.Limit,
	}, nil
}

type FreelancerSummaryResponse struct {
	ID              uuid.UUID                   `json:"id"`
	DisplayName     string                      `json:"display_name"`
	City            string                      `json:"city"`
	State           string                      `json:"state"`
	AvatarURL       *string                     `json:"avatar_url"`
	Bio             string                      `json:"bio"`
	HourlyRate      *float64                    `json:"hourly_rate"`
	YearsExperience int                         `json:"years_experience"`
	Rating          float64                     `json:"rating"`
	TotalReviews    int                         `json:"total_reviews"`
	TotalJobs       int                         `json:"total_jobs"`
	IsPro           bool                        `json:"is_pro"`
	ProfileStrength int                         `json:"profile_strength"`
	Specialties     []valueobject.SpecialtyInfo `json:"specialties"`
}

func ToFreelancerSummaryResponse(f *entity.FreelancerSummary) FreelancerSummaryResponse {
	return FreelancerSummaryResponse{
		ID:              f.ID,
		DisplayName:     f.DisplayName,
		City:            f.City,
		State:           f.State,
		AvatarURL:       f.AvatarURL,
		Bio:             f.Bio,
		HourlyRate:      f.HourlyRate,
		YearsExperience: f.YearsExperience,
		Rating:          f.Rating,
		TotalReviews:    f.TotalReviews,
		TotalJobs:       f.TotalJobs,
		IsPro:           f.IsPro,
		ProfileStrength: f.ProfileStrength,
		Specialties:     ToSpecialtyInfos(f.Specialties),
	}
}

func ToFreelancerSummaryResponses(items []*entity.FreelancerSummary) []FreelancerSummaryResponse {
	return mapSlice(items, ToFreelancerSummaryResponse)
}
