// Package repository implements all database queries for the event
// manager. It uses pgx directly (no ORM) for transparency and
// performance.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInsufficientAvailability is returned when a booking asks for more
// tickets than an event has left in either price tier.
var ErrInsufficientAvailability = errors.New("not enough tickets available")

// OrganiserRepository handles persistence for organiser reference data.
type OrganiserRepository struct {
	db *pgxpool.Pool
}

// NewOrganiserRepository constructs an OrganiserRepository.
func NewOrganiserRepository(db *pgxpool.Pool) *OrganiserRepository {
	return &OrganiserRepository{db: db}
}

// GetByID returns a single organiser or ErrNotFound.
func (r *OrganiserRepository) GetByID(ctx context.Context, id int64) (*model.Organiser, error) {
	var org model.Organiser
	err := r.db.QueryRow(ctx,
		`SELECT organiser_id, name, description FROM organisers WHERE organiser_id = $1`,
		id,
	).Scan(&org.ID, &org.Name, &org.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get organiser: %w", err)
	}
	return &org, nil
}

// Count returns the number of organisers.
func (r *OrganiserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM organisers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count organisers: %w", err)
	}
	return n, nil
}

// SettingsRepository handles persistence for the singleton site settings
// row. It never invents defaults: a missing row is ErrNotFound and the
// caller decides what to show instead.
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row or ErrNotFound.
func (r *SettingsRepository) Get(ctx context.Context) (*model.SiteSettings, error) {
	var s model.SiteSettings
	err := r.db.QueryRow(ctx,
		`SELECT site_name, site_description FROM site_settings WHERE settings_id = 1`,
	).Scan(&s.SiteName, &s.SiteDescription)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Upsert writes the settings row with the fixed id 1, replacing both
// fields entirely if the row already exists.
func (r *SettingsRepository) Upsert(ctx context.Context, s model.SiteSettings) (*model.SiteSettings, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO site_settings (settings_id, site_name, site_description)
		 VALUES (1, $1, $2)
		 ON CONFLICT (settings_id) DO UPDATE
		 SET site_name = EXCLUDED.site_name, site_description = EXCLUDED.site_description`,
		s.SiteName, s.SiteDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert settings: %w", err)
	}
	return &s, nil
}
