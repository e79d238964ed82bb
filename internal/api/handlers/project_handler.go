package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

// ProjectHandler handles HTTP requests related to portfolio projects.
type ProjectHandler struct {
	service services.ProjectServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// ProjectPayload defines the structure for project creation.
type ProjectPayload struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	ImageURL     string   `json:"imageUrl" validate:"omitempty,url,max=500"`
	LiveURL      string   `json:"liveUrl" validate:"omitempty,url,max=500"`
	GithubURL    string   `json:"githubUrl" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies" validate:"max=50,dive,max=100"`
	Status       string   `json:"status" validate:"omitempty,max=50"`
	Order        int      `json:"order" validate:"gte=0"`
	IsPublished  *bool    `json:"isPublished"`
}

// ProjectPatchPayload is a partial project update.
type ProjectPatchPayload struct {
	Title        *string   `json:"title" validate:"omitnil,min=1,max=255"`
	Description  *string   `json:"description"`
	Content      *string   `json:"content"`
	ImageURL     *string   `json:"imageUrl" validate:"omitnil,omitempty,url,max=500"`
	LiveURL      *string   `json:"liveUrl" validate:"omitnil,omitempty,url,max=500"`
	GithubURL    *string   `json:"githubUrl" validate:"omitnil,omitempty,url,max=500"`
	Technologies *[]string `json:"technologies" validate:"omitnil,max=50,dive,max=100"`
	Status       *string   `json:"status" validate:"omitnil,min=1,max=50"`
	Order        *int      `json:"order" validate:"omitnil,gte=0"`
	IsPublished  *bool     `json:"isPublished"`
}

// GetAll handles the request to list projects. ?published=true filters.
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.GetAllProjects(r.Context(), queryBool(r, "published"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get handles the request to get a single project by its ID.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetProjectByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Create handles the request to create a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ProjectPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	published := true
	if payload.IsPublished != nil {
		published = *payload.IsPublished
	}
	project, err := h.service.CreateProject(r.Context(), models.Project{
		Title:        payload.Title,
		Description:  payload.Description,
		Content:      payload.Content,
		ImageURL:     payload.ImageURL,
		LiveURL:      payload.LiveURL,
		GithubURL:    payload.GithubURL,
		Technologies: payload.Technologies,
		Status:       payload.Status,
		Order:        payload.Order,
		IsPublished:  published,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Update handles the request to patch an existing project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload ProjectPatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), chi.URLParam(r, "id"), models.ProjectPatch{
		Title:        payload.Title,
		Description:  payload.Description,
		Content:      payload.Content,
		ImageURL:     payload.ImageURL,
		LiveURL:      payload.LiveURL,
		GithubURL:    payload.GithubURL,
		Technologies: payload.Technologies,
		Status:       payload.Status,
		Order:        payload.Order,
		IsPublished:  payload.IsPublished,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete handles the request to delete a project.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
