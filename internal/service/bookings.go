package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// BookingService computes availability and creates bookings.
type BookingService struct {
	events   EventStore
	bookings BookingStore
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(events EventStore, bookings BookingStore) *BookingService {
	return &BookingService{events: events, bookings: bookings}
}

// GetAvailability returns a published event with its remaining tickets
// per tier. Draft or missing events are repository.ErrNotFound.
func (s *BookingService) GetAvailability(ctx context.Context, eventID int64) (*model.EventAvailability, error) {
	summary, err := s.events.GetPublishedWithTotals(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &model.EventAvailability{
		Event:               summary.Event,
		FullAvailable:       summary.FullAvailable(),
		ConcessionAvailable: summary.ConcessionAvailable(),
	}, nil
}

// CreateBooking validates the request and delegates the availability
// check and insert to the repository, which runs both under a row lock.
//
// Input validation happens before any database access: an empty attendee
// name or a zero-ticket request never reaches the store.
func (s *BookingService) CreateBooking(ctx context.Context, eventID int64, req model.BookingRequest) (*model.Booking, error) {
	attendeeName := strings.TrimSpace(req.AttendeeName)
	if attendeeName == "" {
		return nil, fmt.Errorf("%w: attendee name is required", ErrInvalidInput)
	}

	fullWanted := parseCount(req.FullPriceTickets)
	concessionWanted := parseCount(req.ConcessionTickets)
	if fullWanted+concessionWanted == 0 {
		return nil, fmt.Errorf("%w: at least one ticket must be requested", ErrInvalidInput)
	}

	return s.bookings.Create(ctx, eventID, attendeeName, fullWanted, concessionWanted)
}

// ListBookings returns the bookings for an event, newest first. The
// event must exist in some state; drafts simply have no bookings.
func (s *BookingService) ListBookings(ctx context.Context, eventID int64) ([]model.Booking, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.bookings.ListByEvent(ctx, eventID)
}
