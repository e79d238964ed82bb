package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps an application error onto a status code and body. Unknown
// errors are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: apperr.ErrInvalidInput.Error(), Fields: verr.Fields})
	case errors.Is(err, apperr.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  apperr.ErrInvalidInput.Error(),
			Fields: []apperr.FieldError{{Field: "password", Message: apperr.ErrWeakPassword.Error()}},
		})
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: apperr.ErrInvalidInput.Error()})
	case errors.Is(err, apperr.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: apperr.ErrDuplicateEmail.Error()})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: apperr.ErrInvalidCredentials.Error()})
	case errors.Is(err, apperr.ErrUnauthenticated),
		errors.Is(err, apperr.ErrInvalidSignature),
		errors.Is(err, apperr.ErrExpired):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: apperr.ErrUnauthenticated.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: apperr.ErrForbidden.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: apperr.ErrNotFound.Error()})
	case errors.Is(err, apperr.ErrStoreUnavailable):
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("Store unavailable")
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: apperr.ErrStoreUnavailable.Error()})
	default:
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).Msg("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// normalizer is implemented by payloads that canonicalize fields before validation.
type normalizer interface {
	Normalize()
}

// decodeJSON reads a single JSON object into dst, normalizes and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "body", Message: bodyMessage(err)}}}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &apperr.ValidationError{Fields: []apperr.FieldError{{Field: "body", Message: "must contain a single JSON object"}}}
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validation.Struct(dst)
}

func bodyMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "is required"
	case errors.As(err, &maxErr):
		return "is too large"
	case errors.Is(err, models.ErrInvalidDate):
		return "contains an invalid date, expected YYYY-MM-DD"
	default:
		return "is not valid JSON"
	}
}

// queryBool reads a boolean query parameter; absent or malformed values are false.
func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
