package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// SettingsService manages the singleton site settings row.
type SettingsService struct {
	settings SettingsStore
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(settings SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the stored settings, or repository.ErrNotFound when none
// have been written. Resolving the fallback default is the presentation
// layer's job, not the store's.
func (s *SettingsService) Get(ctx context.Context) (*model.SiteSettings, error) {
	return s.settings.Get(ctx)
}

// Upsert validates and writes the settings row, replacing both fields.
func (s *SettingsService) Upsert(ctx context.Context, siteName, siteDescription string) (*model.SiteSettings, error) {
	siteName = strings.TrimSpace(siteName)
	siteDescription = strings.TrimSpace(siteDescription)
	if siteName == "" {
		return nil, fmt.Errorf("%w: site name is required", ErrInvalidInput)
	}
	if siteDescription == "" {
		return nil, fmt.Errorf("%w: site description is required", ErrInvalidInput)
	}
	return s.settings.Upsert(ctx, model.SiteSettings{
		SiteName:        siteName,
		SiteDescription: siteDescription,
	})
}
