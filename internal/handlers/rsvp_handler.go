package handlers

import (
	"context"
	"net/http"

	"github.com/eventplanner/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RSVPService is the interface that wraps methods for RSVP business logic.
type RSVPService interface {
	// Method Submit records the caller's status for an event, replacing any previous one.
	//
	// An empty or unknown status produces an apperrors.ErrValidation, a missing event an
	// apperrors.ErrNotFound and an event dated before today an apperrors.ErrDeadlineExceeded.
	Submit(ctx context.Context, userID, eventID int, status string) (*models.RSVPConfirmation, error)
	// Method Summarize counts the RSVPs of an event per status.
	Summarize(ctx context.Context, eventID int) (*models.RSVPSummary, error)
	// Method ListMyRSVPs returns the user's RSVPs with event snapshots, skipping deleted events.
	ListMyRSVPs(ctx context.Context, userID int) ([]models.MyRSVP, error)
}

// RSVPHandler handles RSVP requests
type RSVPHandler struct {
	BaseHandler
	rsvpService RSVPService
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(rsvpService RSVPService, logger *zap.Logger) *RSVPHandler {
	return &RSVPHandler{
		BaseHandler: BaseHandler{Logger: logger},
		rsvpService: rsvpService,
	}
}

// RegisterRoutes registers all RSVP routes behind the auth middleware
func (h *RSVPHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/rsvp/{event_id}", h.Submit)
		r.Get("/rsvp-summary/{event_id}", h.Summary)
		r.Get("/my-rsvps", h.ListMine)
	})
}

// myRSVPsResponse wraps the caller's RSVP list
type myRSVPsResponse struct {
	RSVPs []models.MyRSVP `json:"rsvps"`
}

// Submit handles POST /rsvp/{event_id}
// @Summary RSVP to an event
// @Description Create or overwrite the caller's RSVP. Status is one of Going, Maybe, Decline.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param event_id path int true "Event ID"
// @Param request body models.RSVPRequest true "Status"
// @Success 200 {object} models.RSVPConfirmation
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rsvp/{event_id} [post]
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	eventID, ok := h.pathID(w, r, "event_id")
	if !ok {
		return
	}

	var req models.RSVPRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	confirmation, err := h.rsvpService.Submit(r.Context(), identity.UserID, eventID, req.Status)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, confirmation)
}

// Summary handles GET /rsvp-summary/{event_id}
// @Summary RSVP summary
// @Tags rsvp
// @Produce json
// @Security ApiKeyAuth
// @Param event_id path int true "Event ID"
// @Success 200 {object} models.RSVPSummary
// @Failure 400 {object} map[string]string
// @Router /rsvp-summary/{event_id} [get]
func (h *RSVPHandler) Summary(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.pathID(w, r, "event_id")
	if !ok {
		return
	}

	summary, err := h.rsvpService.Summarize(r.Context(), eventID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, summary)
}

// ListMine handles GET /my-rsvps
// @Summary My RSVPs
// @Description RSVPs of the caller with a snapshot of each event
// @Tags rsvp
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} myRSVPsResponse
// @Router /my-rsvps [get]
func (h *RSVPHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	rsvps, err := h.rsvpService.ListMyRSVPs(r.Context(), identity.UserID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, myRSVPsResponse{RSVPs: rsvps})
}
