// Package salaries tracks teacher salary records and payment state.
package salaries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"schoolapp/internal/apperr"
)

// Salary is one monthly salary record for a teacher.
type Salary struct {
	ID        int        `json:"id"`
	TeacherID int        `json:"teacher_id"`
	Month     string     `json:"month"`
	Amount    float64    `json:"amount"`
	Paid      bool       `json:"paid"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
}

// Repository persists salaries in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a salary record.
func (r *Repository) Add(ctx context.Context, s Salary) (Salary, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO salaries (teacher_id, month, amount)
		VALUES ($1, $2, $3)
		RETURNING id, paid
	`, s.TeacherID, s.Month, s.Amount)
	if err := row.Scan(&s.ID, &s.Paid); err != nil {
		return Salary{}, err
	}
	return s, nil
}

// MarkPaid records a payment.
func (r *Repository) MarkPaid(ctx context.Context, id int) (Salary, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE salaries SET paid = true, paid_date = NOW()
		WHERE id = $1
		RETURNING id, teacher_id, month, amount, paid, paid_date
	`, id)
	var s Salary
	if err := row.Scan(&s.ID, &s.TeacherID, &s.Month, &s.Amount, &s.Paid, &s.PaidDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Salary{}, apperr.ErrNotFound
		}
		return Salary{}, err
	}
	return s, nil
}

// ListByTeacher returns a teacher's salary records.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID int) ([]Salary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, teacher_id, month, amount, paid, paid_date
		FROM salaries WHERE teacher_id = $1 ORDER BY id
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Salary
	for rows.Next() {
		var s Salary
		if err := rows.Scan(&s.ID, &s.TeacherID, &s.Month, &s.Amount, &s.Paid, &s.PaidDate); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// HasPending reports whether any unpaid salary record exists for a teacher.
// Consumed by the teacher-deletion guard.
func (r *Repository) HasPending(ctx context.Context, teacherID int) (bool, error) {
	var pending bool
	row := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM salaries WHERE teacher_id = $1 AND paid = false)
	`, teacherID)
	if err := row.Scan(&pending); err != nil {
		return false, err
	}
	return pending, nil
}
