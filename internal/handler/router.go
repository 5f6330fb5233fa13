package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/session"
)

// NewRouter builds the chi router with the full HTTP surface.
func NewRouter(h *Handler, sessions *session.Manager, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(AccessLog(log))

	r.Get("/", h.Landing)
	r.Get("/health", HealthCheck)

	r.Route("/attendee", func(r chi.Router) {
		r.Get("/", h.ListPublishedEvents)
		r.Get("/event/{id}", h.GetEvent)
		r.Post("/book/{id}", h.CreateBooking)
	})

	r.Route("/organiser", func(r chi.Router) {
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(sessions))
			r.Get("/", h.Dashboard)
			r.Get("/settings", h.Settings)
			r.Post("/settings", h.UpdateSettings)
			r.Get("/create-event", h.CreateEventForm)
			r.Post("/create-event", h.CreateEvent)
			r.Get("/edit-event/{id}", h.EditEventForm)
			r.Post("/edit-event/{id}", h.EditEvent)
			r.Post("/publish-event/{id}", h.PublishEvent)
			r.Post("/delete-event/{id}", h.DeleteEvent)
		})
	})

	// Unmatched routes answer with a diagnostic naming method and path.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})

	return r
}
