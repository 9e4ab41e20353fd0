package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/models"
	"go.uber.org/zap"
)

const eventColumns = "id, title, description, date, start_time, end_time, location, image_url"

// eventRepository implements EventRepository
type eventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, logger *zap.Logger) *eventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent scans the eventColumns of a single row
func scanEvent(row rowScanner, event *models.Event) error {
	var imageURL sql.NullString
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&imageURL,
	); err != nil {
		return err
	}
	if imageURL.Valid {
		event.ImageURL = &imageURL.String
	}
	return nil
}

// nullableString converts an optional string to a value accepted by the driver
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create inserts a new event and sets its generated ID
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, date, start_time, end_time, location, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		nullableString(event.ImageURL),
	)
	if err != nil {
		r.logger.Error("failed to create event", zap.Error(err))
		return apperrors.Store("failed to create event", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return apperrors.Store("failed to get last insert id", err)
	}

	event.ID = int(id)
	return nil
}

// GetByID retrieves an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	event := &models.Event{}
	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("event")
	}
	if err != nil {
		r.logger.Error("failed to get event by id", zap.Int("eventId", id), zap.Error(err))
		return nil, apperrors.Store("failed to get event by id", err)
	}

	return event, nil
}

// GetAll retrieves all events ordered by date ascending
func (r *eventRepository) GetAll(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query events", zap.Error(err))
		return nil, apperrors.Store("failed to query events", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			r.logger.Error("failed to scan event", zap.Error(err))
			return nil, apperrors.Store("failed to scan event", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating rows", err)
	}

	return events, nil
}

// Update overwrites every mutable column of an existing event
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = ?, description = ?, date = ?, start_time = ?, end_time = ?, location = ?, image_url = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.StartTime,
		event.EndTime,
		event.Location,
		nullableString(event.ImageURL),
		event.ID,
	)
	if err != nil {
		r.logger.Error("failed to update event", zap.Int("eventId", event.ID), zap.Error(err))
		return apperrors.Store("failed to update event", err)
	}

	// MySQL reports 0 affected rows when the values did not change, so a
	// missing row is detected separately.
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		exists, err := r.exists(ctx, event.ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("event")
		}
	}

	return nil
}

// Delete deletes an event by ID. RSVP rows referencing it are left in place.
func (r *eventRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM events WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("failed to delete event", zap.Int("eventId", id), zap.Error(err))
		return apperrors.Store("failed to delete event", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("event")
	}

	return nil
}

// exists checks whether an event with the given ID exists
func (r *eventRepository) exists(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check event existence", zap.Int("eventId", id), zap.Error(err))
		return false, apperrors.Store("failed to check event existence", err)
	}
	return exists, nil
}
