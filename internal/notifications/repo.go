// Package notifications stores per-user and broadcast notifications.
package notifications

import (
	"context"
	"database/sql"
	"time"
)

// Notification targets one user, or every user when UserID is nil.
type Notification struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	UserID    *int      `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a notification.
func (r *Repository) Add(ctx context.Context, n Notification) (Notification, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (title, message, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, n.Title, n.Message, n.UserID)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// AddForUsers inserts one notification per user in a single transaction.
// Used by the fan-out worker.
func (r *Repository) AddForUsers(ctx context.Context, title, message string, userIDs []int) error {
	if len(userIDs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (title, message, user_id)
			VALUES ($1, $2, $3)
		`, title, message, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForUser returns a user's notifications plus broadcasts, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, message, user_id, created_at
		FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.UserID, &n.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}
