package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/models"
	"go.uber.org/zap"
)

// rsvpRepository implements RSVPRepository
type rsvpRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRSVPRepository creates a new RSVP repository
func NewRSVPRepository(db *sql.DB, logger *zap.Logger) *rsvpRepository {
	return &rsvpRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the RSVP of a (user, event) pair or overwrites its status.
//
// The unique key on (user_id, event_id) makes this a single atomic statement,
// so concurrent submissions for the same pair can never create a second row.
// LAST_INSERT_ID(id) makes the existing row ID available on the update path.
func (r *rsvpRepository) Upsert(ctx context.Context, rsvp *models.RSVP) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return apperrors.Store("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rsvps (user_id, event_id, status)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			id = LAST_INSERT_ID(id)
	`

	result, err := tx.ExecContext(ctx, query, rsvp.UserID, rsvp.EventID, rsvp.Status)
	if err != nil {
		r.logger.Error("failed to upsert rsvp",
			zap.Int("userId", rsvp.UserID),
			zap.Int("eventId", rsvp.EventID),
			zap.Error(err),
		)
		return apperrors.Store("failed to upsert rsvp", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Store("failed to get last insert id", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return apperrors.Store("failed to commit transaction", err)
	}

	rsvp.ID = int(id)
	return nil
}

// GetByUserAndEvent retrieves the RSVP of a (user, event) pair
func (r *rsvpRepository) GetByUserAndEvent(ctx context.Context, userID, eventID int) (*models.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status
		FROM rsvps
		WHERE user_id = ? AND event_id = ?
	`

	rsvp := &models.RSVP{}
	err := r.db.QueryRowContext(ctx, query, userID, eventID).Scan(&rsvp.ID, &rsvp.UserID, &rsvp.EventID, &rsvp.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("rsvp")
	}
	if err != nil {
		r.logger.Error("failed to get rsvp", zap.Int("userId", userID), zap.Int("eventId", eventID), zap.Error(err))
		return nil, apperrors.Store("failed to get rsvp", err)
	}

	return rsvp, nil
}

// CountByStatus returns the number of RSVP rows per raw status value of one event
func (r *rsvpRepository) CountByStatus(ctx context.Context, eventID int) ([]models.StatusCount, error) {
	query := `
		SELECT event_id, status, COUNT(*)
		FROM rsvps
		WHERE event_id = ?
		GROUP BY event_id, status
	`

	return r.queryCounts(ctx, query, eventID)
}

// CountByStatusForEvents returns the number of RSVP rows per event and raw status value
func (r *rsvpRepository) CountByStatusForEvents(ctx context.Context, eventIDs []int) ([]models.StatusCount, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(eventIDs))
	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT event_id, status, COUNT(*)
		FROM rsvps
		WHERE event_id IN (` + strings.Join(placeholders, ", ") + `)
		GROUP BY event_id, status
	`

	return r.queryCounts(ctx, query, args...)
}

func (r *rsvpRepository) queryCounts(ctx context.Context, query string, args ...any) ([]models.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to count rsvps", zap.Error(err))
		return nil, apperrors.Store("failed to count rsvps", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.EventID, &c.Status, &c.Count); err != nil {
			return nil, apperrors.Store("failed to scan rsvp count", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating rows", err)
	}

	return counts, nil
}

// GetByUserWithEvents retrieves every RSVP of a user joined with its event, in
// submission order. The inner join drops RSVPs whose event has been deleted.
func (r *rsvpRepository) GetByUserWithEvents(ctx context.Context, userID int) ([]models.MyRSVP, error) {
	query := `
		SELECT r.status, e.id, e.title, e.description, e.date, e.start_time, e.end_time, e.location, e.image_url
		FROM rsvps r
		INNER JOIN events e ON e.id = r.event_id
		WHERE r.user_id = ?
		ORDER BY r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query user rsvps", zap.Int("userId", userID), zap.Error(err))
		return nil, apperrors.Store("failed to query user rsvps", err)
	}
	defer rows.Close()

	result := []models.MyRSVP{}
	for rows.Next() {
		var item models.MyRSVP
		var imageURL sql.NullString
		if err := rows.Scan(
			&item.Status,
			&item.Event.ID,
			&item.Event.Title,
			&item.Event.Description,
			&item.Event.Date,
			&item.Event.StartTime,
			&item.Event.EndTime,
			&item.Event.Location,
			&imageURL,
		); err != nil {
			return nil, apperrors.Store("failed to scan user rsvp", err)
		}
		if imageURL.Valid {
			item.Event.ImageURL = &imageURL.String
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store("error iterating rows", err)
	}

	return result, nil
}
