package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/metrics"
	"github.com/eventplanner/backend/internal/models"
	"go.uber.org/zap"
)

// RSVPRepository is the interface that wraps methods for RSVPs table data access
type RSVPRepository interface {
	// Method Upsert atomically creates the RSVP of a (user, event) pair or overwrites its status.
	//
	// On success the ID of the stored row is set on "rsvp".
	Upsert(ctx context.Context, rsvp *models.RSVP) error
	// Method CountByStatus returns one row per raw status value of the event with its row count.
	CountByStatus(ctx context.Context, eventID int) ([]models.StatusCount, error)
	// Method GetByUserWithEvents retrieves the RSVPs of a user joined with their events,
	// ordered by RSVP ID. RSVPs of deleted events are not returned.
	GetByUserWithEvents(ctx context.Context, userID int) ([]models.MyRSVP, error)
}

// EventReader resolves the event an RSVP refers to
type EventReader interface {
	GetByID(ctx context.Context, id int) (*models.Event, error)
}

// rsvpService validates and applies RSVP state changes
type rsvpService struct {
	rsvpRepo  RSVPRepository
	eventRepo EventReader
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewRSVPService creates a new RSVP service.
//
// "location" decides which calendar day counts as today for the RSVP cutoff; nil means UTC.
func NewRSVPService(rsvpRepo RSVPRepository, eventRepo EventReader, location *time.Location, logger *zap.Logger) *rsvpService {
	if location == nil {
		location = time.UTC
	}
	return &rsvpService{
		rsvpRepo:  rsvpRepo,
		eventRepo: eventRepo,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// Submit records the status of a user for an event, overwriting any previous one.
//
// The event must exist and its date must not be earlier than today. An event
// accepts RSVPs for its whole day, even after its start time has passed.
func (s *rsvpService) Submit(ctx context.Context, userID, eventID int, rawStatus string) (*models.RSVPConfirmation, error) {
	if strings.TrimSpace(rawStatus) == "" {
		metrics.RSVPRejectionsTotal.WithLabelValues("validation").Inc()
		return nil, apperrors.Validation("status is required")
	}

	status, err := models.ParseRSVPStatus(rawStatus)
	if err != nil {
		metrics.RSVPRejectionsTotal.WithLabelValues("validation").Inc()
		return nil, apperrors.Validation("%s", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.RSVPRejectionsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	today := models.DateOf(s.now().In(s.location))
	if event.Date.Before(today) {
		metrics.RSVPRejectionsTotal.WithLabelValues("deadline").Inc()
		return nil, fmt.Errorf("%w: RSVP not allowed, event date has passed", apperrors.ErrDeadlineExceeded)
	}

	rsvp := &models.RSVP{UserID: userID, EventID: eventID, Status: status}
	if err := s.rsvpRepo.Upsert(ctx, rsvp); err != nil {
		return nil, err
	}

	metrics.RSVPSubmissionsTotal.WithLabelValues(string(status)).Inc()
	s.logger.Debug("rsvp applied",
		zap.Int("rsvpId", rsvp.ID),
		zap.Int("userId", userID),
		zap.Int("eventId", eventID),
		zap.String("status", string(status)),
	)

	return &models.RSVPConfirmation{
		EventID: eventID,
		Status:  status,
		Message: fmt.Sprintf("RSVP updated to %s", status),
	}, nil
}

// Summarize counts the RSVPs of an event per status.
// Rows with a non-canonical status are not counted in any bucket.
func (s *rsvpService) Summarize(ctx context.Context, eventID int) (*models.RSVPSummary, error) {
	counts, err := s.rsvpRepo.CountByStatus(ctx, eventID)
	if err != nil {
		return nil, err
	}

	summary := &models.RSVPSummary{}
	for _, c := range counts {
		summary.Add(c.Status, c.Count)
	}
	return summary, nil
}

// ListMyRSVPs returns the RSVPs of a user with a snapshot of each event
func (s *rsvpService) ListMyRSVPs(ctx context.Context, userID int) ([]models.MyRSVP, error) {
	return s.rsvpRepo.GetByUserWithEvents(ctx, userID)
}
