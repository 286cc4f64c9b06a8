package db

import (
	"context"
	"fmt"

	"volunteer-api/models"
)

// UpsertUser stores the profile carried by a caller's credential.
func (db *DB) UpsertUser(ctx context.Context, u models.User) error {
	ts := toMillis(now())
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, role, first_name, last_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			role = excluded.role,
			first_name = CASE WHEN excluded.first_name <> '' THEN excluded.first_name ELSE users.first_name END,
			last_name = CASE WHEN excluded.last_name <> '' THEN excluded.last_name ELSE users.last_name END,
			email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
			updated_at = excluded.updated_at
	`, u.ID, string(u.Role), u.FirstName, u.LastName, u.Email, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUsers loads the profiles for ids. Unknown ids are absent from the result.
func (db *DB) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	marks, args := placeholders(ids)
	rows, err := db.QueryContext(ctx,
		`SELECT id, role, first_name, last_name, email FROM users WHERE id IN (`+marks+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			u    models.User
			role string
		)
		if err := rows.Scan(&u.ID, &role, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		users[u.ID] = u
	}
	return users, rows.Err()
}
