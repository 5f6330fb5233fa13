// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
	"github.com/merlinmelissa/event-manager-app/internal/service"
	"github.com/merlinmelissa/event-manager-app/internal/session"
)

// sessionCookie is the name of the organiser session cookie.
const sessionCookie = "em_session"

// Handler holds all HTTP handlers for the event manager.
type Handler struct {
	events     *service.EventService
	bookings   *service.BookingService
	settings   *service.SettingsService
	auth       *service.AuthService
	organisers service.OrganiserStore
	sessions   *session.Manager
	log        *zap.Logger
}

// New constructs a Handler.
func New(
	events *service.EventService,
	bookings *service.BookingService,
	settings *service.SettingsService,
	auth *service.AuthService,
	organisers service.OrganiserStore,
	sessions *session.Manager,
	log *zap.Logger,
) *Handler {
	return &Handler{
		events:     events,
		bookings:   bookings,
		settings:   settings,
		auth:       auth,
		organisers: organisers,
		sessions:   sessions,
		log:        log,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// respondError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognised is a persistence or programming failure: logged and
// answered with a generic 500.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrInsufficientAvailability):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// idParam reads the {id} chi URL parameter. A non-integer id can never
// name an event, so it reads as not found rather than bad input.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// siteSettings resolves the stored settings, falling back to the default
// constant when none have been written yet.
func (h *Handler) siteSettings(r *http.Request) model.SiteSettings {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		return model.DefaultSiteSettings
	}
	return *s
}

// ─── Public pages ─────────────────────────────────────────────────────────────

// Landing handles GET /
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	count, err := h.organisers.Count(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"settings":        h.siteSettings(r),
		"organiser_count": count,
	})
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
