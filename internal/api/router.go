package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/isdelr/portfolio-be/internal/api/handlers"
	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/websocket"
)

// Options groups the dependencies of the HTTP router.
type Options struct {
	Guard          *auth.Guard
	DB             handlers.Pinger
	Hub            *websocket.Hub
	AuthService    services.AuthServiceProvider
	ProjectService services.ProjectServiceProvider
	BlogService    services.BlogServiceProvider
	ContactService services.ContactServiceProvider
	ProfileService services.ProfileServiceProvider
	EventService   services.EventServiceProvider

	AllowedOrigins []string
	RequestTimeout time.Duration
	Production     bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders(opts.Production))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unmatched paths are guarded too, so probing without a token learns nothing.
	r.NotFound(opts.Guard.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, apperr.ErrNotFound.Error())
	})).ServeHTTP)
	r.MethodNotAllowed(opts.Guard.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})).ServeHTTP)

	// Initialize handlers
	routes := routeTable(routeHandlers{
		health:    handlers.NewHealthHandler(opts.DB),
		auth:      handlers.NewAuthHandler(opts.AuthService),
		projects:  handlers.NewProjectHandler(opts.ProjectService),
		blog:      handlers.NewBlogHandler(opts.BlogService),
		contact:   handlers.NewContactHandler(opts.ContactService),
		profile:   handlers.NewProfileHandler(opts.ProfileService),
		events:    handlers.NewEventHandler(opts.EventService),
		websocket: handlers.NewWebSocketHandler(opts.Hub, opts.AllowedOrigins),
	})

	var regular, streams []Route
	for _, rt := range routes {
		if rt.Stream {
			streams = append(streams, rt)
		} else {
			regular = append(regular, rt)
		}
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		mount(r, opts.Guard, regular)
	})
	mount(r, opts.Guard, streams)

	return r
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
