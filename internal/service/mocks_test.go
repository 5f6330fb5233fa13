package service

import (
	"context"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// --- Mock stores ---

type mockEventStore struct {
	createFn        func(ctx context.Context, e *model.Event) (*model.Event, error)
	getByIDFn       func(ctx context.Context, id int64) (*model.Event, error)
	getPublishedFn  func(ctx context.Context, id int64) (*model.EventSummary, error)
	updateFn        func(ctx context.Context, e *model.Event) (*model.Event, error)
	publishFn       func(ctx context.Context, id int64) error
	deleteFn        func(ctx context.Context, id int64) error
	listPublishedFn func(ctx context.Context) ([]model.EventSummary, error)
	listDraftsFn    func(ctx context.Context) ([]model.Event, error)
}

func (m *mockEventStore) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	return m.createFn(ctx, e)
}
func (m *mockEventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockEventStore) GetPublishedWithTotals(ctx context.Context, id int64) (*model.EventSummary, error) {
	return m.getPublishedFn(ctx, id)
}
func (m *mockEventStore) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	return m.updateFn(ctx, e)
}
func (m *mockEventStore) Publish(ctx context.Context, id int64) error {
	return m.publishFn(ctx, id)
}
func (m *mockEventStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}
func (m *mockEventStore) ListPublished(ctx context.Context) ([]model.EventSummary, error) {
	return m.listPublishedFn(ctx)
}
func (m *mockEventStore) ListDrafts(ctx context.Context) ([]model.Event, error) {
	return m.listDraftsFn(ctx)
}

type mockBookingStore struct {
	createFn      func(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error)
	listByEventFn func(ctx context.Context, eventID int64) ([]model.Booking, error)
}

func (m *mockBookingStore) Create(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error) {
	return m.createFn(ctx, eventID, attendeeName, fullWanted, concessionWanted)
}
func (m *mockBookingStore) ListByEvent(ctx context.Context, eventID int64) ([]model.Booking, error) {
	return m.listByEventFn(ctx, eventID)
}

type mockSettingsStore struct {
	getFn    func(ctx context.Context) (*model.SiteSettings, error)
	upsertFn func(ctx context.Context, s model.SiteSettings) (*model.SiteSettings, error)
}

func (m *mockSettingsStore) Get(ctx context.Context) (*model.SiteSettings, error) {
	return m.getFn(ctx)
}
func (m *mockSettingsStore) Upsert(ctx context.Context, s model.SiteSettings) (*model.SiteSettings, error) {
	return m.upsertFn(ctx, s)
}

type mockOrganiserStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Organiser, error)
	countFn   func(ctx context.Context) (int, error)
}

func (m *mockOrganiserStore) GetByID(ctx context.Context, id int64) (*model.Organiser, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockOrganiserStore) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}
