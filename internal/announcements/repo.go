// Package announcements stores school-wide announcements.
package announcements

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"schoolapp/internal/apperr"
)

// Announcement is one posted announcement.
type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists announcements in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts an announcement.
func (r *Repository) Add(ctx context.Context, a Announcement) (Announcement, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO announcements (title, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, a.Title, a.Message)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// Get returns one announcement by id.
func (r *Repository) Get(ctx context.Context, id int) (Announcement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, message, created_at FROM announcements WHERE id = $1
	`, id)
	var a Announcement
	if err := row.Scan(&a.ID, &a.Title, &a.Message, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Announcement{}, apperr.ErrNotFound
		}
		return Announcement{}, err
	}
	return a, nil
}

// List returns announcements newest first.
func (r *Repository) List(ctx context.Context) ([]Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, message, created_at FROM announcements ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
