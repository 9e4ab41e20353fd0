package handlers

import (
	"context"
	"net/http"

	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventService is the interface that wraps methods for event catalog business logic.
//
// Every mutating method checks that "identity" holds the Admin role before touching storage
// and returns an apperrors.ErrPermission otherwise.
type EventService interface {
	// Method Create validates the request and stores a new event.
	Create(ctx context.Context, identity auth.Identity, req *models.CreateEventRequest) (*models.Event, error)
	// Method Update overwrites the provided fields of an event and returns the merged result.
	Update(ctx context.Context, identity auth.Identity, id int, req *models.UpdateEventRequest) (*models.Event, error)
	// Method Delete removes an event. RSVPs of the event are kept but no longer listed.
	Delete(ctx context.Context, identity auth.Identity, id int) error
	// Method List returns all events ordered by date with their live RSVP counts.
	List(ctx context.Context) ([]models.EventWithCounts, error)
	// Method Get returns a single event or an apperrors.ErrNotFound.
	Get(ctx context.Context, id int) (*models.Event, error)
}

// EventHandler handles event catalog requests
type EventHandler struct {
	BaseHandler
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		eventService: eventService,
	}
}

// RegisterRoutes registers all event routes behind the auth middleware
func (h *EventHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/events", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// eventListResponse wraps the event list
type eventListResponse struct {
	Events []models.EventWithCounts `json:"events"`
}

// List handles GET /events
// @Summary List events
// @Description List all events ordered by date with Going/Maybe/Decline counts
// @Tags events
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} eventListResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, eventListResponse{Events: events})
}

// Get handles GET /events/{id}
// @Summary Get event
// @Tags events
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, event)
}

// Create handles POST /events
// @Summary Create event
// @Description Admin only
// @Tags events
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), identity, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, event)
}

// Update handles PUT /events/{id}
// @Summary Update event
// @Description Admin only. Omitted fields keep their previous value.
// @Tags events
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Event ID"
// @Param request body models.UpdateEventRequest true "Fields to change"
// @Success 200 {object} models.Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), identity, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}
// @Summary Delete event
// @Description Admin only. RSVPs of the event are hidden, not deleted.
// @Tags events
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), identity, id); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}
