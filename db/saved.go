package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"volunteer-api/models"
)

const savedColumns = `id, user_id, event_id, created_at, updated_at`

func scanSaved(row scanner) (*models.SavedEvent, error) {
	var (
		s            models.SavedEvent
		created, upd int64
	)
	if err := row.Scan(&s.ID, &s.User, &s.Event, &created, &upd); err != nil {
		return nil, err
	}
	s.CreatedAt = fromMillis(created)
	s.UpdatedAt = fromMillis(upd)
	return &s, nil
}

// FindSavedEvent returns the bookmark of userID for eventID.
func (db *DB) FindSavedEvent(ctx context.Context, userID, eventID string) (*models.SavedEvent, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+savedColumns+` FROM saved_events WHERE user_id = ? AND event_id = ?`, userID, eventID)
	s, err := scanSaved(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find saved event: %w", err)
	}
	return s, nil
}

// CreateSavedEvent inserts a bookmark. A concurrent duplicate yields ErrDuplicate.
func (db *DB) CreateSavedEvent(ctx context.Context, s *models.SavedEvent) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	ts := now()
	s.CreatedAt = ts
	s.UpdatedAt = ts

	_, err := db.ExecContext(ctx,
		`INSERT INTO saved_events (`+savedColumns+`) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.User, s.Event, toMillis(s.CreatedAt), toMillis(s.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert saved event: %w", err)
	}
	return nil
}

// DeleteSavedEvent removes and returns the bookmark of userID for eventID.
func (db *DB) DeleteSavedEvent(ctx context.Context, userID, eventID string) (*models.SavedEvent, error) {
	row := db.QueryRowContext(ctx,
		`DELETE FROM saved_events WHERE user_id = ? AND event_id = ? RETURNING `+savedColumns,
		userID, eventID)
	s, err := scanSaved(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete saved event: %w", err)
	}
	return s, nil
}

// ListSavedEvents returns the approved events bookmarked by userID, by date.
func (db *DB) ListSavedEvents(ctx context.Context, userID string) ([]models.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = ?
		  AND id IN (SELECT event_id FROM saved_events WHERE user_id = ?)
		ORDER BY `+SortByDate.orderBy(),
		string(models.StatusApproved), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved events: %w", err)
	}
	return scanEvents(rows)
}
