package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

const eventColumns = `event_id, title, description, event_date,
	full_price_tickets, full_price_cost, concession_tickets, concession_cost,
	status, organiser_id, created_date, published_date, last_modified`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row, e *model.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate,
		&e.FullPriceTickets, &e.FullPriceCost, &e.ConcessionTickets, &e.ConcessionCost,
		&e.Status, &e.OrganiserID, &e.CreatedDate, &e.PublishedDate, &e.LastModified,
	)
}

// Create inserts a new draft event and returns it with its generated id.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	e.Status = model.StatusDraft
	e.CreatedDate = now
	e.LastModified = now

	err := r.db.QueryRow(ctx,
		`INSERT INTO events (title, description, event_date,
		   full_price_tickets, full_price_cost, concession_tickets, concession_cost,
		   status, organiser_id, created_date, last_modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING event_id`,
		e.Title, e.Description, e.EventDate,
		e.FullPriceTickets, e.FullPriceCost, e.ConcessionTickets, e.ConcessionCost,
		e.Status, e.OrganiserID, e.CreatedDate, e.LastModified,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// GetByID returns a single event in any state, or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id = $1`, id,
	), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// GetPublishedWithTotals returns a published event annotated with its
// booked-ticket totals, or ErrNotFound when the event is missing or
// still a draft.
func (r *EventRepository) GetPublishedWithTotals(ctx context.Context, id int64) (*model.EventSummary, error) {
	var s model.EventSummary
	err := r.db.QueryRow(ctx,
		`SELECT e.event_id, e.title, e.description, e.event_date,
		   e.full_price_tickets, e.full_price_cost, e.concession_tickets, e.concession_cost,
		   e.status, e.organiser_id, e.created_date, e.published_date, e.last_modified,
		   COALESCE(SUM(b.full_price_tickets), 0), COALESCE(SUM(b.concession_tickets), 0)
		 FROM events e
		 LEFT JOIN bookings b ON b.event_id = e.event_id
		 WHERE e.event_id = $1 AND e.status = 'published'
		 GROUP BY e.event_id`,
		id,
	).Scan(
		&s.ID, &s.Title, &s.Description, &s.EventDate,
		&s.FullPriceTickets, &s.FullPriceCost, &s.ConcessionTickets, &s.ConcessionCost,
		&s.Status, &s.OrganiserID, &s.CreatedDate, &s.PublishedDate, &s.LastModified,
		&s.FullBooked, &s.ConcessionBooked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get published event: %w", err)
	}
	return &s, nil
}

// Update rewrites an event's editable fields and bumps last_modified.
// Status and published_date are never touched here.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	e.LastModified = time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, event_date = $4,
		     full_price_tickets = $5, full_price_cost = $6,
		     concession_tickets = $7, concession_cost = $8,
		     last_modified = $9
		 WHERE event_id = $1`,
		e.ID, e.Title, e.Description, e.EventDate,
		e.FullPriceTickets, e.FullPriceCost, e.ConcessionTickets, e.ConcessionCost,
		e.LastModified,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, e.ID)
}

// Publish transitions a draft to published and stamps published_date.
// Events that are already published or missing are left untouched; the
// zero-row update is deliberately not an error.
func (r *EventRepository) Publish(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE events
		 SET status = 'published', published_date = $2
		 WHERE event_id = $1 AND status = 'draft'`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Delete removes an event; the foreign key cascade removes its bookings.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublished returns published events ordered by event date ascending,
// each annotated with its booked-ticket totals.
func (r *EventRepository) ListPublished(ctx context.Context) ([]model.EventSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.event_id, e.title, e.description, e.event_date,
		   e.full_price_tickets, e.full_price_cost, e.concession_tickets, e.concession_cost,
		   e.status, e.organiser_id, e.created_date, e.published_date, e.last_modified,
		   COALESCE(SUM(b.full_price_tickets), 0), COALESCE(SUM(b.concession_tickets), 0)
		 FROM events e
		 LEFT JOIN bookings b ON b.event_id = e.event_id
		 WHERE e.status = 'published'
		 GROUP BY e.event_id
		 ORDER BY e.event_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	defer rows.Close()

	var events []model.EventSummary
	for rows.Next() {
		var s model.EventSummary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.EventDate,
			&s.FullPriceTickets, &s.FullPriceCost, &s.ConcessionTickets, &s.ConcessionCost,
			&s.Status, &s.OrganiserID, &s.CreatedDate, &s.PublishedDate, &s.LastModified,
			&s.FullBooked, &s.ConcessionBooked,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, s)
	}
	return events, rows.Err()
}

// ListDrafts returns drafts newest first. Drafts cannot be booked, so no
// totals are computed.
func (r *EventRepository) ListDrafts(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE status = 'draft'
		 ORDER BY created_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
