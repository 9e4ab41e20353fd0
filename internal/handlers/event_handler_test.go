package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEventService is a mock implementation of EventService
type mockEventService struct {
	event        *models.Event
	events       []models.EventWithCounts
	err          error
	lastIdentity auth.Identity
	lastID       int
	lastUpdate   *models.UpdateEventRequest
}

func (m *mockEventService) Create(ctx context.Context, identity auth.Identity, req *models.CreateEventRequest) (*models.Event, error) {
	m.lastIdentity = identity
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func (m *mockEventService) Update(ctx context.Context, identity auth.Identity, id int, req *models.UpdateEventRequest) (*models.Event, error) {
	m.lastIdentity, m.lastID, m.lastUpdate = identity, id, req
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func (m *mockEventService) Delete(ctx context.Context, identity auth.Identity, id int) error {
	m.lastIdentity, m.lastID = identity, id
	return m.err
}

func (m *mockEventService) List(ctx context.Context) ([]models.EventWithCounts, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

func (m *mockEventService) Get(ctx context.Context, id int) (*models.Event, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func sampleEvent() *models.Event {
	imageURL := "https://example.com/diwali.png"
	return &models.Event{
		ID:          3,
		Title:       "Diwali Celebration",
		Description: "Join us for lights, sweets, and joy!",
		Date:        models.NewDate(2099, time.November, 10),
		StartTime:   models.NewTimeOfDay(18, 0, 0),
		EndTime:     models.NewTimeOfDay(21, 0, 0),
		Location:    "Community Hall, Delhi",
		ImageURL:    &imageURL,
	}
}

func newEventRouter(svc EventService, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	NewEventHandler(svc, zap.NewNop()).RegisterRoutes(r, authMiddleware)
	return r
}

var adminIdentity = auth.Identity{UserID: 1, Role: models.RoleAdmin}

func TestEventHandler_List(t *testing.T) {
	svc := &mockEventService{events: []models.EventWithCounts{{Event: *sampleEvent(), Going: 2, Maybe: 1}}}
	r := newEventRouter(svc, withIdentity(auth.Identity{UserID: 2, Role: models.RoleUser}))

	w := doRequest(t, r, http.MethodGet, "/events", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	events, ok := body["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)

	event := events[0].(map[string]any)
	assert.Equal(t, float64(3), event["id"])
	assert.Equal(t, "2099-11-10", event["date"])
	assert.Equal(t, "18:00", event["start_time"])
	assert.Equal(t, "21:00", event["end_time"])
	assert.Equal(t, "https://example.com/diwali.png", event["image_url"])
	assert.Equal(t, float64(2), event["going"])
	assert.Equal(t, float64(1), event["maybe"])
	assert.Equal(t, float64(0), event["decline"])
}

func TestEventHandler_List_EmptyIsArray(t *testing.T) {
	r := newEventRouter(&mockEventService{events: []models.EventWithCounts{}}, withIdentity(adminIdentity))

	w := doRequest(t, r, http.MethodGet, "/events", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"events":[]}`, w.Body.String())
}

func TestEventHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		service        *mockEventService
		expectedStatus int
	}{
		{name: "success", path: "/events/3", service: &mockEventService{event: sampleEvent()}, expectedStatus: http.StatusOK},
		{name: "not found", path: "/events/9", service: &mockEventService{err: apperrors.NotFound("event")}, expectedStatus: http.StatusNotFound},
		{name: "bad id", path: "/events/abc", service: &mockEventService{}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEventRouter(tt.service, withIdentity(adminIdentity))
			w := doRequest(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestEventHandler_Create(t *testing.T) {
	body := map[string]string{
		"title":       "Diwali Celebration",
		"description": "Join us for lights, sweets, and joy!",
		"date":        "2099-11-10",
		"start_time":  "18:00",
		"end_time":    "21:00",
		"location":    "Community Hall, Delhi",
	}

	tests := []struct {
		name           string
		body           any
		service        *mockEventService
		authMiddleware func(http.Handler) http.Handler
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "created",
			body:           body,
			service:        &mockEventService{event: sampleEvent()},
			authMiddleware: withIdentity(adminIdentity),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "forbidden for users",
			body:           body,
			service:        &mockEventService{err: auth.Authorize(auth.Identity{UserID: 2, Role: models.RoleUser}, models.RoleAdmin)},
			authMiddleware: withIdentity(auth.Identity{UserID: 2, Role: models.RoleUser}),
			expectedStatus: http.StatusForbidden,
			expectedError:  "Admin role required",
		},
		{
			name:           "validation error",
			body:           body,
			service:        &mockEventService{err: apperrors.Validation("title is required")},
			authMiddleware: withIdentity(adminIdentity),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "title is required",
		},
		{
			name:           "malformed json",
			body:           "[",
			service:        &mockEventService{},
			authMiddleware: withIdentity(adminIdentity),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "no identity",
			body:           body,
			service:        &mockEventService{},
			authMiddleware: passThrough,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := tt.service
			r := newEventRouter(svc, tt.authMiddleware)

			w := doRequest(t, r, http.MethodPost, "/events", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeBody(t, w)["error"])
				return
			}
			assert.Equal(t, "Diwali Celebration", decodeBody(t, w)["title"])
			assert.Equal(t, adminIdentity, svc.lastIdentity)
		})
	}
}

func TestEventHandler_Update(t *testing.T) {
	t.Run("partial body", func(t *testing.T) {
		svc := &mockEventService{event: sampleEvent()}
		r := newEventRouter(svc, withIdentity(adminIdentity))

		w := doRequest(t, r, http.MethodPut, "/events/3", map[string]string{"title": "Updated"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, svc.lastID)
		require.NotNil(t, svc.lastUpdate.Title)
		assert.Equal(t, "Updated", *svc.lastUpdate.Title)
		assert.Nil(t, svc.lastUpdate.Date)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockEventService{err: apperrors.NotFound("event")}
		r := newEventRouter(svc, withIdentity(adminIdentity))

		w := doRequest(t, r, http.MethodPut, "/events/9", map[string]string{"title": "Updated"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "event not found", decodeBody(t, w)["error"])
	})
}

func TestEventHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		service        *mockEventService
		expectedStatus int
	}{
		{name: "deleted", path: "/events/3", service: &mockEventService{}, expectedStatus: http.StatusOK},
		{name: "not found", path: "/events/3", service: &mockEventService{err: apperrors.NotFound("event")}, expectedStatus: http.StatusNotFound},
		{name: "forbidden", path: "/events/3", service: &mockEventService{err: apperrors.ErrPermission}, expectedStatus: http.StatusForbidden},
		{name: "bad id", path: "/events/x", service: &mockEventService{}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEventRouter(tt.service, withIdentity(adminIdentity))
			w := doRequest(t, r, http.MethodDelete, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
