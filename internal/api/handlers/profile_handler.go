package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

// ProfileHandler handles HTTP requests for the profile, skills, experiences
// and educations.
type ProfileHandler struct {
	service services.ProfileServiceProvider
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service services.ProfileServiceProvider) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// SocialLinksPayload holds optional profile links.
type SocialLinksPayload struct {
	Github   string `json:"github" validate:"omitempty,url,max=500"`
	Linkedin string `json:"linkedin" validate:"omitempty,url,max=500"`
	Twitter  string `json:"twitter" validate:"omitempty,url,max=500"`
	Website  string `json:"website" validate:"omitempty,url,max=500"`
}

// ResumePayload points at a downloadable CV.
type ResumePayload struct {
	URL      string `json:"url" validate:"omitempty,url,max=500"`
	FileName string `json:"fileName" validate:"max=255"`
}

func (p *SocialLinksPayload) model() *models.SocialLinks {
	if p == nil {
		return nil
	}
	return &models.SocialLinks{Github: p.Github, Linkedin: p.Linkedin, Twitter: p.Twitter, Website: p.Website}
}

func (p *ResumePayload) model() *models.Resume {
	if p == nil {
		return nil
	}
	return &models.Resume{URL: p.URL, FileName: p.FileName}
}

// ProfilePayload defines the structure for profile creation.
type ProfilePayload struct {
	FullName    string              `json:"fullName" validate:"required,max=255"`
	Title       string              `json:"title" validate:"max=255"`
	Bio         string              `json:"bio"`
	Avatar      string              `json:"avatar" validate:"omitempty,url,max=500"`
	Email       string              `json:"email" validate:"omitempty,email,max=255"`
	Phone       string              `json:"phone" validate:"max=255"`
	Location    string              `json:"location" validate:"max=500"`
	SocialLinks *SocialLinksPayload `json:"socialLinks"`
	Resume      *ResumePayload      `json:"resume"`
}

// ProfilePatchPayload is a partial profile update.
type ProfilePatchPayload struct {
	FullName    *string             `json:"fullName" validate:"omitnil,min=1,max=255"`
	Title       *string             `json:"title" validate:"omitnil,max=255"`
	Bio         *string             `json:"bio"`
	Avatar      *string             `json:"avatar" validate:"omitnil,omitempty,url,max=500"`
	Email       *string             `json:"email" validate:"omitnil,omitempty,email,max=255"`
	Phone       *string             `json:"phone" validate:"omitnil,max=255"`
	Location    *string             `json:"location" validate:"omitnil,max=500"`
	SocialLinks *SocialLinksPayload `json:"socialLinks"`
	Resume      *ResumePayload      `json:"resume"`
}

// SkillPayload defines the structure for skill creation. isActive defaults to true.
type SkillPayload struct {
	Name        string `json:"name" validate:"required,max=255"`
	Category    string `json:"category" validate:"required,max=100"`
	Proficiency int    `json:"proficiency" validate:"gte=0,lte=100"`
	Icon        string `json:"icon" validate:"max=500"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

// SkillPatchPayload is a partial skill update.
type SkillPatchPayload struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Category    *string `json:"category" validate:"omitnil,min=1,max=100"`
	Proficiency *int    `json:"proficiency" validate:"omitnil,gte=0,lte=100"`
	Icon        *string `json:"icon" validate:"omitnil,max=500"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// ExperiencePayload defines the structure for experience creation.
type ExperiencePayload struct {
	Title       string       `json:"title" validate:"required,max=255"`
	Company     string       `json:"company" validate:"required,max=255"`
	Description string       `json:"description"`
	Location    string       `json:"location" validate:"max=100"`
	StartDate   *models.Date `json:"startDate"`
	EndDate     *models.Date `json:"endDate"`
	IsCurrent   bool         `json:"isCurrent"`
	Order       int          `json:"order"`
}

// ExperiencePatchPayload is a partial experience update.
type ExperiencePatchPayload struct {
	Title       *string      `json:"title" validate:"omitnil,min=1,max=255"`
	Company     *string      `json:"company" validate:"omitnil,min=1,max=255"`
	Description *string      `json:"description"`
	Location    *string      `json:"location" validate:"omitnil,max=100"`
	StartDate   *models.Date `json:"startDate"`
	EndDate     *models.Date `json:"endDate"`
	IsCurrent   *bool        `json:"isCurrent"`
	Order       *int         `json:"order"`
}

// EducationPayload defines the structure for education creation.
type EducationPayload struct {
	Degree         string       `json:"degree" validate:"required,max=255"`
	Institution    string       `json:"institution" validate:"required,max=255"`
	Field          string       `json:"field" validate:"max=255"`
	Description    string       `json:"description"`
	StartDate      *models.Date `json:"startDate"`
	EndDate        *models.Date `json:"endDate"`
	CertificateURL string       `json:"certificateUrl" validate:"omitempty,url,max=500"`
	Order          int          `json:"order"`
}

// EducationPatchPayload is a partial education update.
type EducationPatchPayload struct {
	Degree         *string      `json:"degree" validate:"omitnil,min=1,max=255"`
	Institution    *string      `json:"institution" validate:"omitnil,min=1,max=255"`
	Field          *string      `json:"field" validate:"omitnil,max=255"`
	Description    *string      `json:"description"`
	StartDate      *models.Date `json:"startDate"`
	EndDate        *models.Date `json:"endDate"`
	CertificateURL *string      `json:"certificateUrl" validate:"omitnil,omitempty,url,max=500"`
	Order          *int         `json:"order"`
}

// GetProfile handles the request for the current profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// CreateProfile handles the request to create a profile.
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload ProfilePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), models.Profile{
		FullName:    payload.FullName,
		Title:       payload.Title,
		Bio:         payload.Bio,
		Avatar:      payload.Avatar,
		Email:       models.NormalizeEmail(payload.Email),
		Phone:       payload.Phone,
		Location:    payload.Location,
		SocialLinks: payload.SocialLinks.model(),
		Resume:      payload.Resume.model(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// UpdateProfile handles the request to patch a profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload ProfilePatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	if payload.Email != nil {
		email := models.NormalizeEmail(*payload.Email)
		payload.Email = &email
	}

	profile, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), models.ProfilePatch{
		FullName:    payload.FullName,
		Title:       payload.Title,
		Bio:         payload.Bio,
		Avatar:      payload.Avatar,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Location:    payload.Location,
		SocialLinks: payload.SocialLinks.model(),
		Resume:      payload.Resume.model(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetSkills lists skills. ?active=true filters.
func (h *ProfileHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.service.GetAllSkills(r.Context(), queryBool(r, "active"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// GetSkill handles the request for a single skill.
func (h *ProfileHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := h.service.GetSkillByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// CreateSkill handles the request to create a skill.
func (h *ProfileHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var payload SkillPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	skill, err := h.service.CreateSkill(r.Context(), models.Skill{
		Name:        payload.Name,
		Category:    payload.Category,
		Proficiency: payload.Proficiency,
		Icon:        payload.Icon,
		Order:       payload.Order,
		IsActive:    active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

// UpdateSkill handles the request to patch a skill.
func (h *ProfileHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	var payload SkillPatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	skill, err := h.service.UpdateSkill(r.Context(), chi.URLParam(r, "id"), models.SkillPatch{
		Name:        payload.Name,
		Category:    payload.Category,
		Proficiency: payload.Proficiency,
		Icon:        payload.Icon,
		Order:       payload.Order,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// DeleteSkill handles the request to delete a skill.
func (h *ProfileHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.service.DeleteSkill)
}

// GetExperiences lists experiences.
func (h *ProfileHandler) GetExperiences(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.service.GetAllExperiences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}

// GetExperience handles the request for a single experience.
func (h *ProfileHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	exp, err := h.service.GetExperienceByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// CreateExperience handles the request to create an experience.
func (h *ProfileHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var payload ExperiencePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := h.service.CreateExperience(r.Context(), models.Experience{
		Title:       payload.Title,
		Company:     payload.Company,
		Description: payload.Description,
		Location:    payload.Location,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		IsCurrent:   payload.IsCurrent,
		Order:       payload.Order,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

// UpdateExperience handles the request to patch an experience.
func (h *ProfileHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	var payload ExperiencePatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	exp, err := h.service.UpdateExperience(r.Context(), chi.URLParam(r, "id"), models.ExperiencePatch{
		Title:       payload.Title,
		Company:     payload.Company,
		Description: payload.Description,
		Location:    payload.Location,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		IsCurrent:   payload.IsCurrent,
		Order:       payload.Order,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// DeleteExperience handles the request to delete an experience.
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.service.DeleteExperience)
}

// GetEducations lists education entries.
func (h *ProfileHandler) GetEducations(w http.ResponseWriter, r *http.Request) {
	educations, err := h.service.GetAllEducations(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, educations)
}

// GetEducation handles the request for a single education entry.
func (h *ProfileHandler) GetEducation(w http.ResponseWriter, r *http.Request) {
	edu, err := h.service.GetEducationByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, edu)
}

// CreateEducation handles the request to create an education entry.
func (h *ProfileHandler) CreateEducation(w http.ResponseWriter, r *http.Request) {
	var payload EducationPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	edu, err := h.service.CreateEducation(r.Context(), models.Education{
		Degree:         payload.Degree,
		Institution:    payload.Institution,
		Field:          payload.Field,
		Description:    payload.Description,
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
		CertificateURL: payload.CertificateURL,
		Order:          payload.Order,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, edu)
}

// UpdateEducation handles the request to patch an education entry.
func (h *ProfileHandler) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	var payload EducationPatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	edu, err := h.service.UpdateEducation(r.Context(), chi.URLParam(r, "id"), models.EducationPatch{
		Degree:         payload.Degree,
		Institution:    payload.Institution,
		Field:          payload.Field,
		Description:    payload.Description,
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
		CertificateURL: payload.CertificateURL,
		Order:          payload.Order,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, edu)
}

// DeleteEducation handles the request to delete an education entry.
func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.service.DeleteEducation)
}

func (h *ProfileHandler) remove(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error) {
	if err := del(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
