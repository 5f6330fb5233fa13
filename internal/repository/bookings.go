package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create performs a concurrency-safe booking inside a single transaction.
//
// A naive read-then-write would let two concurrent requests both observe
// free capacity and jointly overbook the event. SELECT ... FOR UPDATE
// takes a row-level exclusive lock on the event row, so concurrent
// bookings against the same event are serialised: the availability check
// and the insert commit together or not at all.
func (r *BookingRepository) Create(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the event row. Filtering on status here means a draft or
	// deleted event reads as missing, which is what attendees must see.
	var fullCapacity, concessionCapacity int
	var fullCost, concessionCost float64
	err = tx.QueryRow(ctx,
		`SELECT full_price_tickets, full_price_cost, concession_tickets, concession_cost
		 FROM events
		 WHERE event_id = $1 AND status = 'published'
		 FOR UPDATE`,
		eventID,
	).Scan(&fullCapacity, &fullCost, &concessionCapacity, &concessionCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	var fullBooked, concessionBooked int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(full_price_tickets), 0), COALESCE(SUM(concession_tickets), 0)
		 FROM bookings WHERE event_id = $1`,
		eventID,
	).Scan(&fullBooked, &concessionBooked)
	if err != nil {
		return nil, fmt.Errorf("sum bookings: %w", err)
	}

	if fullWanted > fullCapacity-fullBooked || concessionWanted > concessionCapacity-concessionBooked {
		err = ErrInsufficientAvailability
		return nil, err
	}

	booking := &model.Booking{
		Reference:         uuid.New().String(),
		EventID:           eventID,
		AttendeeName:      attendeeName,
		FullPriceTickets:  fullWanted,
		ConcessionTickets: concessionWanted,
		TotalCost:         float64(fullWanted)*fullCost + float64(concessionWanted)*concessionCost,
		BookingDate:       time.Now().UTC(),
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (booking_ref, event_id, attendee_name,
		   full_price_tickets, concession_tickets, total_cost, booking_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING booking_id`,
		booking.Reference, booking.EventID, booking.AttendeeName,
		booking.FullPriceTickets, booking.ConcessionTickets, booking.TotalCost, booking.BookingDate,
	).Scan(&booking.ID)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return booking, nil
}

// ListByEvent returns all bookings for an event, newest first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT booking_id, booking_ref, event_id, attendee_name,
		   full_price_tickets, concession_tickets, total_cost, booking_date
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY booking_date DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.EventID, &b.AttendeeName,
			&b.FullPriceTickets, &b.ConcessionTickets, &b.TotalCost, &b.BookingDate,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
