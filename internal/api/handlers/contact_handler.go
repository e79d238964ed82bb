package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

// ContactHandler handles HTTP requests for contact form messages.
type ContactHandler struct {
	service services.ContactServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider) *ContactHandler {
	return &ContactHandler{service: service}
}

// ContactPayload defines the structure of a contact form submission.
type ContactPayload struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required"`
}

// Normalize trims the submitted fields.
func (p *ContactPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Subject = strings.TrimSpace(p.Subject)
	p.Message = strings.TrimSpace(p.Message)
}

// ContactStatusPayload changes the triage status of a message.
type ContactStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=new replied archived"`
}

// GetAll handles the request to list messages.
func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.GetAllMessages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Get handles the request to get a single message.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.GetMessageByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Create handles a contact form submission.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ContactPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.service.CreateMessage(r.Context(), models.ContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// MarkAsRead flags a message as read.
func (h *ContactHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// UpdateStatus sets the triage status of a message.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload ContactStatusPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// UnreadCount reports how many messages are unread.
func (h *ContactHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.UnreadCount(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// Delete handles the request to delete a message.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMessage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
