package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
	"github.com/merlinmelissa/event-manager-app/internal/service"
)

// LoginForm handles GET /organiser/login
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": h.siteSettings(r),
		"fields":   []string{"organiser_id", "password"},
	})
}

// Login handles POST /organiser/login
// Auth failures re-render the login page with a message rather than
// redirecting; success sets the session cookie and redirects to the
// dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	organiserID, err := strconv.ParseInt(r.FormValue("organiser_id"), 10, 64)
	if err != nil {
		h.loginFailed(w, r, "unknown organiser")
		return
	}

	token, sess, err := h.auth.Login(r.Context(), organiserID, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownOrganiser) || errors.Is(err, service.ErrIncorrectPassword) {
			h.loginFailed(w, r, err.Error())
			return
		}
		h.respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info("organiser logged in", zap.Int64("organiser_id", sess.OrganiserID))
	http.Redirect(w, r, "/organiser/", http.StatusSeeOther)
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": h.siteSettings(r),
		"error":    msg,
	})
}

// Logout handles POST /organiser/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		h.auth.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	http.Redirect(w, r, "/organiser/login", http.StatusSeeOther)
}

// Dashboard handles GET /organiser/
// Shows drafts (newest first) and published events with booking totals.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	drafts, err := h.events.ListDrafts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	published, err := h.events.ListPublished(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"organiser": sess,
		"settings":  h.siteSettings(r),
		"drafts":    drafts,
		"published": published,
	})
}

// Settings handles GET /organiser/settings
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.siteSettings(r))
}

// UpdateSettings handles POST /organiser/settings
// Form fields: site_name, site_description. Full replace of the
// singleton row.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Upsert(r.Context(),
		r.FormValue("site_name"),
		r.FormValue("site_description"),
	)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// CreateEventForm handles GET /organiser/create-event
func (h *Handler) CreateEventForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"settings": h.siteSettings(r),
	})
}

// CreateEvent handles POST /organiser/create-event
// Creates a draft event owned by the logged-in organiser.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	_, err := h.events.Create(r.Context(), eventRequestFromForm(r), sess.OrganiserID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/organiser/", http.StatusSeeOther)
}

// EditEventForm handles GET /organiser/edit-event/{id}
// Returns the event in any state, for pre-filling the edit form.
func (h *Handler) EditEventForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	bookings, err := h.bookings.ListBookings(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event":    event,
		"bookings": bookings,
	})
}

// EditEvent handles POST /organiser/edit-event/{id}
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}
	if _, err := h.events.Edit(r.Context(), id, eventRequestFromForm(r)); err != nil {
		h.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/organiser/", http.StatusSeeOther)
}

// PublishEvent handles POST /organiser/publish-event/{id}
// Publishing a non-draft or missing event is a silent no-op; either way
// the organiser lands back on the dashboard.
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}
	if err := h.events.Publish(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/organiser/", http.StatusSeeOther)
}

// DeleteEvent handles POST /organiser/delete-event/{id}
// Deletes the event and, via cascade, all its bookings.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}
	if err := h.events.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/organiser/", http.StatusSeeOther)
}

func eventRequestFromForm(r *http.Request) model.EventRequest {
	return model.EventRequest{
		Title:             r.FormValue("title"),
		Description:       r.FormValue("description"),
		EventDate:         r.FormValue("event_date"),
		FullPriceTickets:  r.FormValue("full_price_tickets"),
		FullPriceCost:     r.FormValue("full_price_cost"),
		ConcessionTickets: r.FormValue("concession_tickets"),
		ConcessionCost:    r.FormValue("concession_cost"),
	}
}
