package services

import (
	"context"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/metrics"
	"github.com/eventplanner/backend/internal/models"
	"github.com/eventplanner/backend/internal/sanitize"
	"go.uber.org/zap"
)

// EventRepository is the interface that wraps methods for Events table data access
type EventRepository interface {
	// Method Create inserts a new event and sets its generated ID.
	Create(ctx context.Context, event *models.Event) error
	// Method GetByID retrieves an event by its ID.
	//
	// If the event does not exist, an apperrors.ErrNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Event, error)
	// Method GetAll retrieves every event ordered by date ascending, ties broken by ID.
	GetAll(ctx context.Context) ([]models.Event, error)
	// Method Update overwrites all mutable columns of an existing event.
	//
	// If the event does not exist, an apperrors.ErrNotFound is returned.
	Update(ctx context.Context, event *models.Event) error
	// Method Delete removes an event. RSVP rows referencing it are left untouched.
	//
	// If the event does not exist, an apperrors.ErrNotFound is returned.
	Delete(ctx context.Context, id int) error
}

// RSVPCounter is the interface that wraps grouped RSVP counting over many events
type RSVPCounter interface {
	// Method CountByStatusForEvents returns one row per (event, raw status) pair with its row count.
	CountByStatusForEvents(ctx context.Context, eventIDs []int) ([]models.StatusCount, error)
}

// eventService implements the admin-gated event catalog
type eventService struct {
	eventRepo EventRepository
	counter   RSVPCounter
	logger    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepository, counter RSVPCounter, logger *zap.Logger) *eventService {
	return &eventService{
		eventRepo: eventRepo,
		counter:   counter,
		logger:    logger,
	}
}

// authorizeAdmin gates every mutating operation before any store access
func (s *eventService) authorizeAdmin(identity auth.Identity, operation string) error {
	if err := auth.Authorize(identity, models.RoleAdmin); err != nil {
		s.logger.Warn("event mutation denied",
			zap.String("operation", operation),
			zap.Int("userId", identity.UserID),
			zap.String("role", string(identity.Role)),
		)
		return err
	}
	return nil
}

// Create validates and stores a new event
func (s *eventService) Create(ctx context.Context, identity auth.Identity, req *models.CreateEventRequest) (*models.Event, error) {
	if err := s.authorizeAdmin(identity, "create"); err != nil {
		return nil, err
	}

	event, err := buildEvent(req)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	metrics.EventMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info("event created", zap.Int("eventId", event.ID), zap.Int("userId", identity.UserID))
	return event, nil
}

// Update applies the provided fields to an existing event; omitted fields keep their value
func (s *eventService) Update(ctx context.Context, identity auth.Identity, id int, req *models.UpdateEventRequest) (*models.Event, error) {
	if err := s.authorizeAdmin(identity, "update"); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mergeEvent(event, req); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	metrics.EventMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info("event updated", zap.Int("eventId", event.ID), zap.Int("userId", identity.UserID))
	return event, nil
}

// Delete removes an event. Its RSVPs stay in storage and are hidden from readers.
func (s *eventService) Delete(ctx context.Context, identity auth.Identity, id int) error {
	if err := s.authorizeAdmin(identity, "delete"); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.EventMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info("event deleted", zap.Int("eventId", id), zap.Int("userId", identity.UserID))
	return nil
}

// List returns every event ordered by date with live RSVP counts
func (s *eventService) List(ctx context.Context) ([]models.EventWithCounts, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	counts, err := s.counter.CountByStatusForEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make(map[int]*models.RSVPSummary, len(events))
	for _, c := range counts {
		summary, ok := summaries[c.EventID]
		if !ok {
			summary = &models.RSVPSummary{}
			summaries[c.EventID] = summary
		}
		summary.Add(c.Status, c.Count)
	}

	result := make([]models.EventWithCounts, len(events))
	for i, e := range events {
		result[i] = models.EventWithCounts{Event: e}
		if summary, ok := summaries[e.ID]; ok {
			result[i].Going = summary.Going
			result[i].Maybe = summary.Maybe
			result[i].Decline = summary.Decline
		}
	}

	return result, nil
}

// Get returns a single event
func (s *eventService) Get(ctx context.Context, id int) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// buildEvent sanitizes, validates and parses a create request
func buildEvent(req *models.CreateEventRequest) (*models.Event, error) {
	clean := models.CreateEventRequest{
		Title:       sanitize.Text(req.Title),
		Description: sanitize.Text(req.Description),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    sanitize.Text(req.Location),
		ImageURL:    normalizeImageURL(req.ImageURL),
	}
	if err := validateStruct(&clean); err != nil {
		return nil, err
	}

	date, err := models.ParseDate(clean.Date)
	if err != nil {
		return nil, apperrors.Validation("%s", err)
	}
	start, err := models.ParseTimeOfDay(clean.StartTime)
	if err != nil {
		return nil, apperrors.Validation("start_time: %s", err)
	}
	end, err := models.ParseTimeOfDay(clean.EndTime)
	if err != nil {
		return nil, apperrors.Validation("end_time: %s", err)
	}

	event := &models.Event{
		Title:       clean.Title,
		Description: clean.Description,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Location:    clean.Location,
		ImageURL:    clean.ImageURL,
	}
	if err := checkTimeRange(event); err != nil {
		return nil, err
	}
	return event, nil
}

// mergeEvent overwrites the fields of event that req provides
func mergeEvent(event *models.Event, req *models.UpdateEventRequest) error {
	if req.ImageURL != nil {
		imageURL := normalizeImageURL(req.ImageURL)
		if err := validateStruct(&models.UpdateEventRequest{ImageURL: imageURL}); err != nil {
			return err
		}
		event.ImageURL = imageURL
	}

	for _, f := range []struct {
		name  string
		value *string
		dst   *string
	}{
		{"title", req.Title, &event.Title},
		{"description", req.Description, &event.Description},
		{"location", req.Location, &event.Location},
	} {
		if f.value == nil {
			continue
		}
		v := sanitize.Text(*f.value)
		if v == "" {
			return apperrors.Validation("%s cannot be empty", f.name)
		}
		*f.dst = v
	}

	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			return apperrors.Validation("%s", err)
		}
		event.Date = date
	}
	if req.StartTime != nil {
		start, err := models.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return apperrors.Validation("start_time: %s", err)
		}
		event.StartTime = start
	}
	if req.EndTime != nil {
		end, err := models.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return apperrors.Validation("end_time: %s", err)
		}
		event.EndTime = end
	}

	return checkTimeRange(event)
}

func checkTimeRange(event *models.Event) error {
	if !event.StartTime.Before(event.EndTime) {
		return apperrors.Validation("start_time must be before end_time")
	}
	return nil
}

// normalizeImageURL trims the URL and maps an empty value to no image
func normalizeImageURL(imageURL *string) *string {
	if imageURL == nil {
		return nil
	}
	v := sanitize.Text(*imageURL)
	if v == "" {
		return nil
	}
	return &v
}
