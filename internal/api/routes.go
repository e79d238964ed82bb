package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/isdelr/portfolio-be/internal/api/handlers"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/models"
)

// Route declares one endpoint. Access defaults to auth.Protected; only routes
// that set auth.Public are reachable without a bearer token.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Access  auth.Access
	// Role, when set, is required in the token claims of a protected route.
	Role string
	// Stream marks long-lived connections that must not get a request timeout.
	Stream bool
}

type routeHandlers struct {
	health    *handlers.HealthHandler
	auth      *handlers.AuthHandler
	projects  *handlers.ProjectHandler
	blog      *handlers.BlogHandler
	contact   *handlers.ContactHandler
	profile   *handlers.ProfileHandler
	events    *handlers.EventHandler
	websocket *handlers.WebSocketHandler
}

func routeTable(h routeHandlers) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/health", Handler: h.health.Check, Access: auth.Public},

		{Method: http.MethodPost, Pattern: "/auth/register", Handler: h.auth.Register, Access: auth.Public},
		{Method: http.MethodPost, Pattern: "/auth/login", Handler: h.auth.Login, Access: auth.Public},
		{Method: http.MethodGet, Pattern: "/auth/me", Handler: h.auth.Me},
		{Method: http.MethodPatch, Pattern: "/auth/me", Handler: h.auth.UpdateMe},
		{Method: http.MethodPut, Pattern: "/auth/me/password", Handler: h.auth.ChangePassword},

		{Method: http.MethodGet, Pattern: "/projects", Handler: h.projects.GetAll},
		{Method: http.MethodPost, Pattern: "/projects", Handler: h.projects.Create},
		{Method: http.MethodGet, Pattern: "/projects/{id}", Handler: h.projects.Get},
		{Method: http.MethodPatch, Pattern: "/projects/{id}", Handler: h.projects.Update},
		{Method: http.MethodDelete, Pattern: "/projects/{id}", Handler: h.projects.Delete},

		{Method: http.MethodGet, Pattern: "/blog", Handler: h.blog.GetAll},
		{Method: http.MethodPost, Pattern: "/blog", Handler: h.blog.Create},
		{Method: http.MethodGet, Pattern: "/blog/slug/{slug}", Handler: h.blog.GetBySlug},
		{Method: http.MethodGet, Pattern: "/blog/{id}", Handler: h.blog.Get},
		{Method: http.MethodPatch, Pattern: "/blog/{id}", Handler: h.blog.Update},
		{Method: http.MethodDelete, Pattern: "/blog/{id}", Handler: h.blog.Delete},

		{Method: http.MethodGet, Pattern: "/contact", Handler: h.contact.GetAll},
		{Method: http.MethodPost, Pattern: "/contact", Handler: h.contact.Create},
		{Method: http.MethodGet, Pattern: "/contact/unread-count", Handler: h.contact.UnreadCount},
		{Method: http.MethodGet, Pattern: "/contact/{id}", Handler: h.contact.Get},
		{Method: http.MethodDelete, Pattern: "/contact/{id}", Handler: h.contact.Delete},
		{Method: http.MethodPatch, Pattern: "/contact/{id}/read", Handler: h.contact.MarkAsRead},
		{Method: http.MethodPatch, Pattern: "/contact/{id}/status", Handler: h.contact.UpdateStatus},

		{Method: http.MethodGet, Pattern: "/profile", Handler: h.profile.GetProfile},
		{Method: http.MethodPost, Pattern: "/profile", Handler: h.profile.CreateProfile},
		{Method: http.MethodPatch, Pattern: "/profile/{id}", Handler: h.profile.UpdateProfile},

		{Method: http.MethodGet, Pattern: "/profile/skills", Handler: h.profile.GetSkills},
		{Method: http.MethodPost, Pattern: "/profile/skills", Handler: h.profile.CreateSkill},
		{Method: http.MethodGet, Pattern: "/profile/skills/{id}", Handler: h.profile.GetSkill},
		{Method: http.MethodPatch, Pattern: "/profile/skills/{id}", Handler: h.profile.UpdateSkill},
		{Method: http.MethodDelete, Pattern: "/profile/skills/{id}", Handler: h.profile.DeleteSkill},

		{Method: http.MethodGet, Pattern: "/profile/experiences", Handler: h.profile.GetExperiences},
		{Method: http.MethodPost, Pattern: "/profile/experiences", Handler: h.profile.CreateExperience},
		{Method: http.MethodGet, Pattern: "/profile/experiences/{id}", Handler: h.profile.GetExperience},
		{Method: http.MethodPatch, Pattern: "/profile/experiences/{id}", Handler: h.profile.UpdateExperience},
		{Method: http.MethodDelete, Pattern: "/profile/experiences/{id}", Handler: h.profile.DeleteExperience},

		{Method: http.MethodGet, Pattern: "/profile/educations", Handler: h.profile.GetEducations},
		{Method: http.MethodPost, Pattern: "/profile/educations", Handler: h.profile.CreateEducation},
		{Method: http.MethodGet, Pattern: "/profile/educations/{id}", Handler: h.profile.GetEducation},
		{Method: http.MethodPatch, Pattern: "/profile/educations/{id}", Handler: h.profile.UpdateEducation},
		{Method: http.MethodDelete, Pattern: "/profile/educations/{id}", Handler: h.profile.DeleteEducation},

		{Method: http.MethodGet, Pattern: "/events", Handler: h.events.GetRecent, Role: models.RoleAdmin},
		{Method: http.MethodGet, Pattern: "/events/ws", Handler: h.websocket.Serve, Role: models.RoleAdmin, Stream: true},
	}
}

// mount registers every route on r behind the guard.
func mount(r chi.Router, guard *auth.Guard, routes []Route) {
	for _, rt := range routes {
		var h http.Handler = rt.Handler
		if rt.Role != "" && rt.Access != auth.Public {
			h = auth.RequireRole(rt.Role, h)
		}
		r.Method(rt.Method, rt.Pattern, guard.Wrap(rt.Access, h))
	}
}
