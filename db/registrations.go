package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"volunteer-api/models"
)

const registrationColumns = `id, user_id, event_id, hours_committed, created_at, updated_at`

func scanRegistration(row scanner) (*models.Registration, error) {
	var (
		r            models.Registration
		hours        sql.NullFloat64
		created, upd int64
	)
	if err := row.Scan(&r.ID, &r.User, &r.Event, &hours, &created, &upd); err != nil {
		return nil, err
	}
	if hours.Valid {
		h := hours.Float64
		r.HoursCommitted = &h
	}
	r.CreatedAt = fromMillis(created)
	r.UpdatedAt = fromMillis(upd)
	return &r, nil
}

func nullHours(h *float64) sql.NullFloat64 {
	if h == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *h, Valid: true}
}

// FindRegistration returns the registration of userID for eventID.
func (db *DB) FindRegistration(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id = ? AND event_id = ?`, userID, eventID)
	r, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	return r, nil
}

// CreateRegistration inserts r only while the event is below its capacity.
//
// The capacity check and the insert are one statement, so concurrent RSVPs
// cannot both observe a free slot. Events without a capacity always accept.
func (db *DB) CreateRegistration(ctx context.Context, r *models.Registration) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	ts := now()
	r.CreatedAt = ts
	r.UpdatedAt = ts

	res, err := db.ExecContext(ctx, `
		INSERT INTO registrations (`+registrationColumns+`)
		SELECT ?, ?, ?, ?, ?, ?
		FROM events e
		WHERE e.id = ?
		  AND (e.capacity IS NULL
		       OR (SELECT COUNT(*) FROM registrations WHERE event_id = e.id) < e.capacity)
	`, r.ID, r.User, r.Event, nullHours(r.HoursCommitted), toMillis(r.CreatedAt), toMillis(r.UpdatedAt), r.Event)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEventFull
	}
	return nil
}

// UpdateRegistrationHours overwrites the committed hours of a registration.
func (db *DB) UpdateRegistrationHours(ctx context.Context, r *models.Registration) error {
	ts := now()
	res, err := db.ExecContext(ctx,
		`UPDATE registrations SET hours_committed = ?, updated_at = ? WHERE id = ?`,
		nullHours(r.HoursCommitted), toMillis(ts), r.ID)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	r.UpdatedAt = ts
	return nil
}

// DeleteRegistration removes and returns the registration of userID for eventID.
func (db *DB) DeleteRegistration(ctx context.Context, userID, eventID string) (*models.Registration, error) {
	row := db.QueryRowContext(ctx,
		`DELETE FROM registrations WHERE user_id = ? AND event_id = ? RETURNING `+registrationColumns,
		userID, eventID)
	r, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete registration: %w", err)
	}
	return r, nil
}

// CountRegistrationsByEvent groups registrations by event for the given ids.
// Events without registrations are absent from the result.
func (db *DB) CountRegistrationsByEvent(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	marks, args := placeholders(eventIDs)
	rows, err := db.QueryContext(ctx,
		`SELECT event_id, COUNT(*) FROM registrations WHERE event_id IN (`+marks+`) GROUP BY event_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate registrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventID string
			n       int
		)
		if err := rows.Scan(&eventID, &n); err != nil {
			return nil, err
		}
		counts[eventID] = n
	}
	return counts, rows.Err()
}
