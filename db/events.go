package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"volunteer-api/models"
)

// EventSort selects the ordering of an event listing.
type EventSort int

const (
	// SortByDate orders by event date ascending.
	SortByDate EventSort = iota
	// SortBySubmitted orders by creation time ascending.
	SortBySubmitted
)

func (s EventSort) orderBy() string {
	if s == SortBySubmitted {
		return "created_at ASC, id ASC"
	}
	return "date ASC, created_at ASC"
}

const eventColumns = `id, title, description, category, date, start_time, end_time, address,
	capacity, image_url, status, owner_id, created_at, updated_at`

func scanEvent(row scanner) (*models.Event, error) {
	var (
		e                  models.Event
		date, created, upd int64
		capacity           sql.NullInt64
		status             string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &date, &e.StartTime, &e.EndTime,
		&e.Address, &capacity, &e.ImageURL, &status, &e.Owner, &created, &upd)
	if err != nil {
		return nil, err
	}
	if e.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		e.Capacity = &c
	}
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(upd)
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// CreateEvent inserts a new event, assigning its id and timestamps.
func (db *DB) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	ts := now()
	e.CreatedAt = ts
	e.UpdatedAt = ts

	var capacity sql.NullInt64
	if e.Capacity != nil {
		capacity = sql.NullInt64{Int64: int64(*e.Capacity), Valid: true}
	}

	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Category, toMillis(e.Date), e.StartTime, e.EndTime, e.Address,
		capacity, e.ImageURL, string(e.Status), e.Owner, toMillis(e.CreatedAt), toMillis(e.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent loads an event by id.
func (db *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	row := db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListEventsByStatus returns every event in the given status.
func (db *DB) ListEventsByStatus(ctx context.Context, status models.Status, sort EventSort) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = ? ORDER BY ` + sort.orderBy()
	rows, err := db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scanEvents(rows)
}

// ListEventsByOwner returns the events created by ownerID ordered by date.
func (db *DB) ListEventsByOwner(ctx context.Context, ownerID string) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = ? ORDER BY ` + SortByDate.orderBy()
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner events: %w", err)
	}
	return scanEvents(rows)
}

// UpdateEventStatus sets the status of an event and bumps updated_at.
func (db *DB) UpdateEventStatus(ctx context.Context, id string, status models.Status) error {
	res, err := db.ExecContext(ctx, `UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toMillis(now()), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
