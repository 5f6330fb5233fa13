// Package service implements business logic, validation, and
// orchestration between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// ErrInvalidInput is returned when a request fails validation. It is
// always wrapped with a human-readable message.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownOrganiser is returned when a login names an organiser id
// that does not resolve.
var ErrUnknownOrganiser = errors.New("unknown organiser")

// ErrIncorrectPassword is returned when a login password does not match
// the configured secret for the organiser.
var ErrIncorrectPassword = errors.New("incorrect password")

// EventStore is the persistence surface the event and booking services
// need for events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	GetPublishedWithTotals(ctx context.Context, id int64) (*model.EventSummary, error)
	Update(ctx context.Context, e *model.Event) (*model.Event, error)
	Publish(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListPublished(ctx context.Context) ([]model.EventSummary, error)
	ListDrafts(ctx context.Context) ([]model.Event, error)
}

// BookingStore is the persistence surface for bookings.
type BookingStore interface {
	Create(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Booking, error)
}

// SettingsStore is the persistence surface for site settings.
type SettingsStore interface {
	Get(ctx context.Context) (*model.SiteSettings, error)
	Upsert(ctx context.Context, s model.SiteSettings) (*model.SiteSettings, error)
}

// OrganiserStore is the persistence surface for organiser reference data.
type OrganiserStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organiser, error)
	Count(ctx context.Context) (int, error)
}
