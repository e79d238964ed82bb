package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/apperr"
)

// Access is the capability flag each route declares.
type Access int

const (
	// Protected routes require a valid bearer token. It is the zero value,
	// so a route that declares nothing is guarded.
	Protected Access = iota
	// Public routes are reachable without a token.
	Public
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "protected"
}

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// ClaimsFromContext returns the claims attached by the guard.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Guard admits or rejects requests based on the bearer token. Verification is
// purely cryptographic; it never touches the credential store.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates a Guard.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Wrap applies the guard unless access is Public.
func (g *Guard) Wrap(access Access, next http.Handler) http.Handler {
	if access == Public {
		return next
	}
	return g.Require(next)
}

// RequireRole rejects requests whose claims lack role with 403. It sits
// inside Require and never sees a request without claims.
func RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.HasRole(role) {
			log.Debug().Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).
				Str("role", role).Msg("Missing role")
			writeAuthError(w, http.StatusForbidden, apperr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require is the middleware protecting a handler.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := BearerToken(r)
		if !ok {
			log.Debug().Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("Missing bearer token")
			unauthorized(w)
			return
		}

		claims, err := g.verifier.Verify(tokenStr)
		if err != nil {
			evt := log.Debug().Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path)
			if errors.Is(err, apperr.ErrExpired) {
				evt.Msg("Expired bearer token")
			} else {
				evt.Err(err).Msg("Invalid bearer token")
			}
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeAuthError(w, http.StatusUnauthorized, apperr.ErrUnauthenticated)
}

func writeAuthError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + err.Error() + `"}` + "\n"))
}
