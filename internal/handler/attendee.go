package handler

import (
	"net/http"

	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
)

// ListPublishedEvents handles GET /attendee/
// Returns published events ordered by event date, with availability.
func (h *Handler) ListPublishedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListPublished(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	views := make([]model.EventAvailability, 0, len(events))
	for i := range events {
		views = append(views, model.EventAvailability{
			Event:               events[i].Event,
			FullAvailable:       events[i].FullAvailable(),
			ConcessionAvailable: events[i].ConcessionAvailable(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"settings": h.siteSettings(r),
		"events":   views,
	})
}

// GetEvent handles GET /attendee/event/{id}
// Returns a published event with its availability, 404 otherwise.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}

	availability, err := h.bookings.GetAvailability(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

// CreateBooking handles POST /attendee/book/{id}
// Form fields: attendee_name, full_price_tickets, concession_tickets.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.respondError(w, r, repository.ErrNotFound)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), id, model.BookingRequest{
		AttendeeName:      r.FormValue("attendee_name"),
		FullPriceTickets:  r.FormValue("full_price_tickets"),
		ConcessionTickets: r.FormValue("concession_tickets"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}
