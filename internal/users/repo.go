// Package users owns accounts and the login flow that issues the tokens the
// rest of the API verifies.
package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"schoolapp/internal/apperr"
)

// User is one account. Password holds the bcrypt hash and never leaves the
// package.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a user. Duplicate emails violate the unique constraint.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Name, u.Email, u.Password, u.Role)
	if err := row.Scan(&u.ID); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role FROM users WHERE email = $1
	`, email)
	return scanUser(row)
}

// Get returns a user by id.
func (r *Repository) Get(ctx context.Context, id int) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// EmailTaken reports whether an account already uses the email.
func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns users, optionally filtered by role.
func (r *Repository) List(ctx context.Context, role string) ([]User, error) {
	query := `SELECT id, name, email, password, role FROM users`
	args := []any{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, id string, userID int, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, id, userID, token, expiresAt)
	return err
}

// RevokeRefreshToken marks a token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
