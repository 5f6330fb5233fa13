// Package database provides PostgreSQL connection management using pgx,
// plus schema migration and organiser seeding for first-time setup.
package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/config"
	"github.com/merlinmelissa/event-manager-app/internal/model"
)

//go:embed schema.sql
var schema string

// NewPool creates and validates a pgxpool connection pool.
// It retries up to 5 times to accommodate containers starting up.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				return pool, nil
			}
			err = pingErr
			pool.Close()
		}
		log.Warn("db connect failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect to postgres: %w", err)
}

// Migrate applies the embedded schema. All statements are idempotent, so
// running migrate repeatedly is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SeedOrganisers inserts organiser reference rows, skipping ids that
// already exist. Organisers are immutable at runtime, so conflicts are
// ignored rather than updated.
func SeedOrganisers(ctx context.Context, pool *pgxpool.Pool, organisers []model.Organiser) error {
	for _, org := range organisers {
		_, err := pool.Exec(ctx,
			`INSERT INTO organisers (organiser_id, name, description)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (organiser_id) DO NOTHING`,
			org.ID, org.Name, org.Description,
		)
		if err != nil {
			return fmt.Errorf("seed organiser %d: %w", org.ID, err)
		}
	}
	return nil
}
