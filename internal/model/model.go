// Package model defines the core domain types for the event manager.
package model

import "time"

// Event lifecycle states. Only published events are visible to attendees.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Organiser is a privileged actor who creates and manages events.
// Organisers are seeded reference data; passwords live in configuration,
// never in the database.
type Organiser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SiteSettings is the singleton site configuration row.
type SiteSettings struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
}

// DefaultSiteSettings is returned at the presentation boundary when no
// settings row has been written yet.
var DefaultSiteSettings = SiteSettings{
	SiteName:        "Event Manager",
	SiteDescription: "Book your events",
}

// Event represents a bookable event created by an organiser.
type Event struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	EventDate         time.Time  `json:"event_date"`
	FullPriceTickets  int        `json:"full_price_tickets"`
	FullPriceCost     float64    `json:"full_price_cost"`
	ConcessionTickets int        `json:"concession_tickets"`
	ConcessionCost    float64    `json:"concession_cost"`
	Status            string     `json:"status"`
	OrganiserID       *int64     `json:"organiser_id,omitempty"`
	CreatedDate       time.Time  `json:"created_date"`
	PublishedDate     *time.Time `json:"published_date,omitempty"`
	LastModified      time.Time  `json:"last_modified"`
}

// IsPublished reports whether the event is attendee-visible.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// EventSummary is an event annotated with aggregated booking totals,
// used by listings and the organiser dashboard.
type EventSummary struct {
	Event
	FullBooked       int `json:"full_booked"`
	ConcessionBooked int `json:"concession_booked"`
}

// FullAvailable returns the remaining full-price tickets.
func (s *EventSummary) FullAvailable() int {
	return s.FullPriceTickets - s.FullBooked
}

// ConcessionAvailable returns the remaining concession tickets.
func (s *EventSummary) ConcessionAvailable() int {
	return s.ConcessionTickets - s.ConcessionBooked
}

// EventAvailability is the attendee-facing view of a published event.
type EventAvailability struct {
	Event               Event `json:"event"`
	FullAvailable       int   `json:"full_available"`
	ConcessionAvailable int   `json:"concession_available"`
}

// Booking represents a confirmed ticket purchase. Bookings are immutable
// once created and are removed only by the cascade when their event is
// deleted.
type Booking struct {
	ID                int64     `json:"id"`
	Reference         string    `json:"reference"`
	EventID           int64     `json:"event_id"`
	AttendeeName      string    `json:"attendee_name"`
	FullPriceTickets  int       `json:"full_price_tickets"`
	ConcessionTickets int       `json:"concession_tickets"`
	TotalCost         float64   `json:"total_cost"`
	BookingDate       time.Time `json:"booking_date"`
}

// EventRequest carries raw form input for event create/edit. Numeric
// fields arrive as strings and default to zero when absent or unparsable.
type EventRequest struct {
	Title             string
	Description       string
	EventDate         string
	FullPriceTickets  string
	FullPriceCost     string
	ConcessionTickets string
	ConcessionCost    string
}

// BookingRequest carries raw form input for an attendee booking.
type BookingRequest struct {
	AttendeeName      string
	FullPriceTickets  string
	ConcessionTickets string
}

// Session identifies an authenticated organiser for the lifetime of a
// login. The token that reaches the client is opaque; this struct lives
// in the server-side registry.
type Session struct {
	ID            string    `json:"-"`
	OrganiserID   int64     `json:"organiser_id"`
	OrganiserName string    `json:"organiser_name"`
	IssuedAt      time.Time `json:"issued_at"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
