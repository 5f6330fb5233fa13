package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// Date layouts accepted on event create/edit. Dates are normalised to a
// plain UTC date for storage.
var eventDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"02/01/2006",
}

// EventService orchestrates event lifecycle operations.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// Create validates the request and creates a new draft event owned by
// the given organiser.
func (s *EventService) Create(ctx context.Context, req model.EventRequest, organiserID int64) (*model.Event, error) {
	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.OrganiserID = &organiserID
	return s.events.Create(ctx, event)
}

// Edit validates the request and rewrites an existing event's fields.
// The event may be in any state; its status is never changed here.
func (s *EventService) Edit(ctx context.Context, id int64, req model.EventRequest) (*model.Event, error) {
	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return s.events.Update(ctx, event)
}

// Publish transitions a draft event to published. Publishing an event
// that is already published, or that does not exist, is a silent no-op.
func (s *EventService) Publish(ctx context.Context, id int64) error {
	return s.events.Publish(ctx, id)
}

// Delete removes an event and, via cascade, all its bookings.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.events.Delete(ctx, id)
}

// Get returns an event in any state, for the organiser edit form.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// ListPublished returns published events by event date ascending with
// booking totals.
func (s *EventService) ListPublished(ctx context.Context) ([]model.EventSummary, error) {
	return s.events.ListPublished(ctx)
}

// ListDrafts returns draft events newest first.
func (s *EventService) ListDrafts(ctx context.Context) ([]model.Event, error) {
	return s.events.ListDrafts(ctx)
}

func eventFromRequest(req model.EventRequest) (*model.Event, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}
	return &model.Event{
		Title:             title,
		Description:       description,
		EventDate:         date,
		FullPriceTickets:  parseCount(req.FullPriceTickets),
		FullPriceCost:     parseCost(req.FullPriceCost),
		ConcessionTickets: parseCount(req.ConcessionTickets),
		ConcessionCost:    parseCost(req.ConcessionCost),
	}, nil
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: event date is required", ErrInvalidInput)
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: event date %q is not a valid date", ErrInvalidInput, raw)
}

// parseCount reads a non-negative integer form value. Missing,
// unparsable, or negative input defaults to 0.
func parseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseCost reads a non-negative decimal form value, defaulting to 0.
func parseCost(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
