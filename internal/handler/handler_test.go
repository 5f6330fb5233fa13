package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
	"github.com/merlinmelissa/event-manager-app/internal/service"
	"github.com/merlinmelissa/event-manager-app/internal/session"
)

// --- Mock stores wired through the real services ---

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
func (m *mockEventStore) Publish(ctx context.Context, id int64) error { return m.publishFn(ctx, id) }
func (m *mockEventStore) Delete(ctx context.Context, id int64) error  { return m.deleteFn(ctx, id) }
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
func (m *mockOrganiserStore) Count(ctx context.Context) (int, error) { return m.countFn(ctx) }

// --- Test fixture ---

type fixture struct {
	events     *mockEventStore
	bookings   *mockBookingStore
	settings   *mockSettingsStore
	organisers *mockOrganiserStore
	sessions   *session.Manager
	router     http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		events: &mockEventStore{
			listPublishedFn: func(ctx context.Context) ([]model.EventSummary, error) {
				return nil, nil
			},
			listDraftsFn: func(ctx context.Context) ([]model.Event, error) {
				return nil, nil
			},
		},
		bookings: &mockBookingStore{},
		settings: &mockSettingsStore{
			getFn: func(ctx context.Context) (*model.SiteSettings, error) {
				return nil, repository.ErrNotFound
			},
		},
		organisers: &mockOrganiserStore{
			getByIDFn: func(ctx context.Context, id int64) (*model.Organiser, error) {
				if id != 2 {
					return nil, repository.ErrNotFound
				}
				return &model.Organiser{ID: 2, Name: "Maya"}, nil
			},
			countFn: func(ctx context.Context) (int, error) { return 1, nil },
		},
		sessions: session.NewManager("test-secret", time.Hour),
	}

	log := zap.NewNop()
	h := New(
		service.NewEventService(f.events),
		service.NewBookingService(f.events, f.bookings),
		service.NewSettingsService(f.settings),
		service.NewAuthService(f.organisers, map[int64]string{2: "swordfish"}, f.sessions),
		f.organisers,
		f.sessions,
		log,
	)
	f.router = NewRouter(h, f.sessions, log)
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (f *fixture) loginCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := f.do(formRequest(http.MethodPost, "/organiser/login", url.Values{
		"organiser_id": {"2"},
		"password":     {"swordfish"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

// --- Landing ---

func TestLanding_ReturnsSettingsAndOrganiserCount(t *testing.T) {
	f := newFixture()
	f.organisers.countFn = func(ctx context.Context) (int, error) { return 3, nil }

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Settings       model.SiteSettings `json:"settings"`
		OrganiserCount int                `json:"organiser_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.DefaultSiteSettings, got.Settings)
	assert.Equal(t, 3, got.OrganiserCount)
}

func TestLanding_CountFaultIs500(t *testing.T) {
	f := newFixture()
	f.organisers.countFn = func(ctx context.Context) (int, error) {
		return 0, errors.New("connection refused")
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// --- Attendee surface ---

func TestGetEvent_PublishedWithAvailability(t *testing.T) {
	f := newFixture()
	f.events.getPublishedFn = func(ctx context.Context, id int64) (*model.EventSummary, error) {
		return &model.EventSummary{
			Event: model.Event{
				ID: 1, Title: "Puppy Yoga", Status: model.StatusPublished,
				FullPriceTickets: 15, ConcessionTickets: 5,
			},
			FullBooked: 1,
		}, nil
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/attendee/event/1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.EventAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 14, got.FullAvailable)
	assert.Equal(t, 5, got.ConcessionAvailable)
}

func TestGetEvent_DraftOrMissingIs404(t *testing.T) {
	f := newFixture()
	f.events.getPublishedFn = func(ctx context.Context, id int64) (*model.EventSummary, error) {
		return nil, repository.ErrNotFound
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/attendee/event/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEvent_NonIntegerIDIs404(t *testing.T) {
	f := newFixture()
	rec := f.do(httptest.NewRequest(http.MethodGet, "/attendee/event/puppies", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()
	f.bookings.createFn = func(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error) {
		return &model.Booking{
			ID: 1, EventID: eventID, AttendeeName: attendeeName,
			FullPriceTickets: fullWanted, ConcessionTickets: concessionWanted,
			TotalCost: 12.50,
		}, nil
	}

	rec := f.do(formRequest(http.MethodPost, "/attendee/book/1", url.Values{
		"attendee_name":      {"Alex Chen"},
		"full_price_tickets": {"1"},
	}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Alex Chen", got.AttendeeName)
	assert.Equal(t, 12.50, got.TotalCost)
}

func TestCreateBooking_EmptyNameIs400(t *testing.T) {
	f := newFixture()

	rec := f.do(formRequest(http.MethodPost, "/attendee/book/1", url.Values{
		"attendee_name":      {"   "},
		"full_price_tickets": {"1"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_InsufficientAvailabilityIs400(t *testing.T) {
	f := newFixture()
	f.bookings.createFn = func(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error) {
		return nil, repository.ErrInsufficientAvailability
	}

	rec := f.do(formRequest(http.MethodPost, "/attendee/book/1", url.Values{
		"attendee_name":      {"Alex"},
		"full_price_tickets": {"20"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_UnpublishedEventIs404(t *testing.T) {
	f := newFixture()
	f.bookings.createFn = func(ctx context.Context, eventID int64, attendeeName string, fullWanted, concessionWanted int) (*model.Booking, error) {
		return nil, repository.ErrNotFound
	}

	rec := f.do(formRequest(http.MethodPost, "/attendee/book/9", url.Values{
		"attendee_name":      {"Alex"},
		"full_price_tickets": {"1"},
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Auth surface ---

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	f := newFixture()

	rec := f.do(formRequest(http.MethodPost, "/organiser/login", url.Values{
		"organiser_id": {"2"},
		"password":     {"swordfish"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/organiser/", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, sessionCookie, rec.Result().Cookies()[0].Name)
}

func TestLogin_WrongPasswordRerendersWithoutCookie(t *testing.T) {
	f := newFixture()

	rec := f.do(formRequest(http.MethodPost, "/organiser/login", url.Values{
		"organiser_id": {"2"},
		"password":     {"wrong"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), "incorrect password")
}

func TestLogin_UnknownOrganiserRerenders(t *testing.T) {
	f := newFixture()

	rec := f.do(formRequest(http.MethodPost, "/organiser/login", url.Values{
		"organiser_id": {"99"},
		"password":     {"swordfish"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown organiser")
}

func TestLogin_StoreFaultIs500NotRerender(t *testing.T) {
	f := newFixture()
	f.organisers.getByIDFn = func(ctx context.Context, id int64) (*model.Organiser, error) {
		return nil, errors.New("connection refused")
	}

	rec := f.do(formRequest(http.MethodPost, "/organiser/login", url.Values{
		"organiser_id": {"2"},
		"password":     {"swordfish"},
	}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestDashboard_WithoutSessionRedirectsToLogin(t *testing.T) {
	f := newFixture()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/organiser/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/organiser/login", rec.Header().Get("Location"))
}

func TestDashboard_WithSession(t *testing.T) {
	f := newFixture()
	f.events.listDraftsFn = func(ctx context.Context) ([]model.Event, error) {
		return []model.Event{{ID: 3, Title: "Secret Gig", Status: model.StatusDraft}}, nil
	}
	cookie := f.loginCookie(t)

	req := httptest.NewRequest(http.MethodGet, "/organiser/", nil)
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Secret Gig")
	assert.Contains(t, rec.Body.String(), "Maya")
}

func TestLogout_InvalidatesSession(t *testing.T) {
	f := newFixture()
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/logout", url.Values{})
	req.AddCookie(cookie)
	rec := f.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// The old cookie no longer grants access.
	req = httptest.NewRequest(http.MethodGet, "/organiser/", nil)
	req.AddCookie(cookie)
	rec = f.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/organiser/login", rec.Header().Get("Location"))
}

// --- Organiser surface ---

func TestCreateEvent_RedirectsToDashboard(t *testing.T) {
	f := newFixture()
	var captured *model.Event
	f.events.createFn = func(ctx context.Context, e *model.Event) (*model.Event, error) {
		captured = e
		e.ID = 1
		return e, nil
	}
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/create-event", url.Values{
		"title":              {"Puppy Yoga"},
		"description":        {"Yoga, but with puppies"},
		"event_date":         {"2026-10-04"},
		"full_price_tickets": {"15"},
		"full_price_cost":    {"12.50"},
		"concession_tickets": {"5"},
		"concession_cost":    {"8"},
	})
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/organiser/", rec.Header().Get("Location"))
	require.NotNil(t, captured)
	require.NotNil(t, captured.OrganiserID)
	assert.Equal(t, int64(2), *captured.OrganiserID)
}

func TestCreateEvent_MissingTitleIs400(t *testing.T) {
	f := newFixture()
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/create-event", url.Values{
		"description": {"No title"},
		"event_date":  {"2026-10-04"},
	})
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditEvent_UnknownEventIs404(t *testing.T) {
	f := newFixture()
	f.events.updateFn = func(ctx context.Context, e *model.Event) (*model.Event, error) {
		return nil, repository.ErrNotFound
	}
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/edit-event/42", url.Values{
		"title":       {"Puppy Yoga"},
		"description": {"Still puppies"},
		"event_date":  {"2026-10-04"},
	})
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublishEvent_RedirectsEvenWhenNoOp(t *testing.T) {
	f := newFixture()
	f.events.publishFn = func(ctx context.Context, id int64) error { return nil }
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/publish-event/7", url.Values{})
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/organiser/", rec.Header().Get("Location"))
}

func TestUpdateSettings_EmptyFieldIs400(t *testing.T) {
	f := newFixture()
	cookie := f.loginCookie(t)

	req := formRequest(http.MethodPost, "/organiser/settings", url.Values{
		"site_name":        {"Puppy Events"},
		"site_description": {""},
	})
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings_FallsBackToDefault(t *testing.T) {
	f := newFixture()
	cookie := f.loginCookie(t)

	req := httptest.NewRequest(http.MethodGet, "/organiser/settings", nil)
	req.AddCookie(cookie)
	rec := f.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.SiteSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.DefaultSiteSettings, got)
}

// --- Routing ---

func TestUnmatchedRouteNamesMethodAndPath(t *testing.T) {
	f := newFixture()

	rec := f.do(httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "GET /no/such/page")
}

func TestHealthCheck(t *testing.T) {
	f := newFixture()
	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
