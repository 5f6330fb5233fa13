// Command eventmanager runs the event-booking web application.
//
//	eventmanager serve     start the HTTP server
//	eventmanager migrate   apply the schema and seed organisers
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/config"
	"github.com/merlinmelissa/event-manager-app/internal/database"
	"github.com/merlinmelissa/event-manager-app/internal/handler"
	"github.com/merlinmelissa/event-manager-app/internal/logger"
	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
	"github.com/merlinmelissa/event-manager-app/internal/service"
	"github.com/merlinmelissa/event-manager-app/internal/session"
)

var organiserFlags []string

var rootCmd = &cobra.Command{
	Use:   "eventmanager",
	Short: "Event Manager - small event-booking web application",
	Long: `Event Manager serves a small event-booking site: attendees browse
published events and book tickets, organisers manage events and site
settings behind a session login.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and seed organisers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	migrateCmd.Flags().StringArrayVar(&organiserFlags, "organiser", nil,
		`organiser to seed, as "id:Name" or "id:Name:Description" (repeatable)`)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.App.LogLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	log.Info("connected to postgres", zap.String("database", cfg.Database.DBName))

	// Wire up layers.
	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	organiserRepo := repository.NewOrganiserRepository(pool)

	sessions := session.NewManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)

	eventSvc := service.NewEventService(eventRepo)
	bookingSvc := service.NewBookingService(eventRepo, bookingRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	authSvc := service.NewAuthService(organiserRepo, cfg.Auth.OrganiserPasswords, sessions)

	h := handler.New(eventSvc, bookingSvc, settingsSvc, authSvc, organiserRepo, sessions, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(h, sessions, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Run in a background goroutine so we can listen for the shutdown
	// signal.
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func runMigrate() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.App.LogLevel, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Info("schema applied")

	organisers, err := organisersToSeed(cfg)
	if err != nil {
		return err
	}
	if len(organisers) > 0 {
		if err := database.SeedOrganisers(ctx, pool, organisers); err != nil {
			return err
		}
		log.Info("organisers seeded", zap.Int("count", len(organisers)))
	}
	return nil
}

// organisersToSeed builds the seed list from --organiser flags. Without
// flags, every organiser id with a configured password gets a
// placeholder row so logins work out of the box.
func organisersToSeed(cfg *config.Config) ([]model.Organiser, error) {
	if len(organiserFlags) == 0 {
		var organisers []model.Organiser
		for id := range cfg.Auth.OrganiserPasswords {
			organisers = append(organisers, model.Organiser{
				ID:   id,
				Name: fmt.Sprintf("Organiser %d", id),
			})
		}
		return organisers, nil
	}

	organisers := make([]model.Organiser, 0, len(organiserFlags))
	for _, raw := range organiserFlags {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed --organiser %q, want id:Name[:Description]", raw)
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("organiser id %q is not an integer", parts[0])
		}
		org := model.Organiser{ID: id, Name: parts[1]}
		if len(parts) == 3 {
			org.Description = parts[2]
		}
		organisers = append(organisers, org)
	}
	return organisers, nil
}
