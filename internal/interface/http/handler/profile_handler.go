package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/dto"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
	"github.com/ignatzorin/freelaav-backend/internal/usecase/profile"
)

type ProfileHandler struct {
	createProfileUC      *profile.CreateProfileUseCase
	getProfileUC         *profile.GetProfileUseCase
	updateProfileUC      *profile.UpdateProfileUseCase
	updateFreelancerUC   *profile.UpdateFreelancerProfileUseCase
	replaceSpecialtiesUC *profile.ReplaceSpecialtiesUseCase
	getFreelancerUC      *profile.GetFreelancerUseCase
}

func NewProfileHandler(
	createProfileUC *profile.CreateProfileUseCase,
	getProfileUC *profile.GetProfileUseCase,
	updateProfileUC *profile.UpdateProfileUseCase,
	updateFreelancerUC *profile.UpdateFreelancerProfileUseCase,
	replaceSpecialtiesUC *profile.ReplaceSpecialtiesUseCase,
	getFreelancerUC *profile.GetFreelancerUseCase,
) *ProfileHandler {
	return &ProfileHandler{
		createProfileUC:      createProfileUC,
		getProfileUC:         getProfileUC,
		updateProfileUC:      updateProfileUC,
		updateFreelancerUC:   updateFreelancerUC,
		replaceSpecialtiesUC: replaceSpecialtiesUC,
		getFreelancerUC:      getFreelancerUC,
	}
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.createProfileUC.Execute(c.Request.Context(), actor, profile.CreateProfileInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		City:        req.City,
		State:       req.State,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToMeResponse(p, h.freelancerPart(c, p)))
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	p, err := h.getProfileUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMeResponse(p, h.freelancerPart(c, p)))
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.updateProfileUC.Execute(c.Request.Context(), actor, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMeResponse(p, h.freelancerPart(c, p)))
}

func (h *ProfileHandler) UpdateFreelancer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.UpdateFreelancerRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := h.updateFreelancerUC.Execute(c.Request.Context(), actor, req.ToDetails())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFreelancerDetailsResponse(f))
}

func (h *ProfileHandler) ReplaceSpecialties(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.ReplaceSpecialtiesRequest
	if !bindJSON(c, &req) {
		return
	}

	codes, err := h.replaceSpecialtiesUC.Execute(c.Request.Context(), actor, req.Specialties)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"specialties": dto.ToSpecialtyInfos(codes)})
}

// GetFreelancer: публичная карточка, авторизация не нужна.
func (h *ProfileHandler) GetFreelancer(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "некорректный ID фрилансера")
	if !ok {
		return
	}

	view, err := h.getFreelancerUC.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFreelancerPublicResponse(view))
}

// freelancerPart догружает расширение фрилансера; ошибка не ломает ответ с профилем.
func (h *ProfileHandler) freelancerPart(c *gin.Context, p *entity.Profile) *entity.FreelancerProfile {
	if !p.IsFreelancer() {
		return nil
	}
	view, err := h.getFreelancerUC.Execute(c.Request.Context(), p.ID)
	if err != nil {
		return nil
	}
	return view.Freelancer
}
