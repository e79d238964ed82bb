package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

// BlogHandler handles HTTP requests related to blog posts.
type BlogHandler struct {
	service services.BlogServiceProvider
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service services.BlogServiceProvider) *BlogHandler {
	return &BlogHandler{service: service}
}

// BlogPostPayload defines the structure for post creation. A scheduled post
// needs a publication time.
type BlogPostPayload struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Slug          string     `json:"slug" validate:"max=500"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content" validate:"required"`
	FeaturedImage string     `json:"featuredImage" validate:"omitempty,url,max=500"`
	Tags          []string   `json:"tags" validate:"max=50,dive,max=100"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt" validate:"required_if=Status scheduled"`
}

// Normalize canonicalizes a client-supplied slug.
func (p *BlogPostPayload) Normalize() {
	if p.Slug != "" {
		p.Slug = models.Slugify(p.Slug)
	}
}

// BlogPostPatchPayload is a partial post update.
type BlogPostPatchPayload struct {
	Title         *string    `json:"title" validate:"omitnil,min=1,max=255"`
	Slug          *string    `json:"slug" validate:"omitnil,min=1,max=500"`
	Excerpt       *string    `json:"excerpt"`
	Content       *string    `json:"content" validate:"omitnil,min=1"`
	FeaturedImage *string    `json:"featuredImage" validate:"omitnil,omitempty,url,max=500"`
	Tags          *[]string  `json:"tags" validate:"omitnil,max=50,dive,max=100"`
	Status        *string    `json:"status" validate:"omitnil,oneof=draft scheduled published"`
	IsPublished   *bool      `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// Normalize canonicalizes a client-supplied slug.
func (p *BlogPostPatchPayload) Normalize() {
	if p.Slug != nil {
		s := models.Slugify(*p.Slug)
		p.Slug = &s
	}
}

// GetAll handles the request to list posts. ?published=true filters.
func (h *BlogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetAllPosts(r.Context(), queryBool(r, "published"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get handles the request to read a post by ID.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetBySlug handles the request to read a post by slug.
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostBySlug(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles the request to create a new post.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload BlogPostPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), models.BlogPost{
		Title:         payload.Title,
		Slug:          payload.Slug,
		Excerpt:       payload.Excerpt,
		Content:       payload.Content,
		FeaturedImage: payload.FeaturedImage,
		Tags:          payload.Tags,
		Status:        payload.Status,
		IsPublished:   payload.IsPublished,
		PublishedAt:   payload.PublishedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Update handles the request to patch an existing post.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload BlogPostPatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "id"), models.BlogPostPatch{
		Title:         payload.Title,
		Slug:          payload.Slug,
		Excerpt:       payload.Excerpt,
		Content:       payload.Content,
		FeaturedImage: payload.FeaturedImage,
		Tags:          payload.Tags,
		Status:        payload.Status,
		IsPublished:   payload.IsPublished,
		PublishedAt:   payload.PublishedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles the request to delete a post.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
