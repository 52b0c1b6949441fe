// Package fees tracks per-student fee records and payment state.
package fees

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"schoolapp/internal/apperr"
)

// Fee is one fee record for a student.
type Fee struct {
	ID        int        `json:"id"`
	StudentID int        `json:"student_id"`
	Amount    float64    `json:"amount"`
	DueDate   string     `json:"due_date"`
	Paid      bool       `json:"paid"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`
}

// Repository persists fees in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a fee record.
func (r *Repository) Add(ctx context.Context, f Fee) (Fee, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO fees (student_id, amount, due_date)
		VALUES ($1, $2, $3)
		RETURNING id, paid
	`, f.StudentID, f.Amount, f.DueDate)
	if err := row.Scan(&f.ID, &f.Paid); err != nil {
		return Fee{}, err
	}
	return f, nil
}

// List returns all fee records.
func (r *Repository) List(ctx context.Context) ([]Fee, error) {
	return r.query(ctx, `
		SELECT id, student_id, amount, due_date, paid, paid_date FROM fees ORDER BY id
	`)
}

// ListByStudent returns a student's fee records.
func (r *Repository) ListByStudent(ctx context.Context, studentID int) ([]Fee, error) {
	return r.query(ctx, `
		SELECT id, student_id, amount, due_date, paid, paid_date
		FROM fees WHERE student_id = $1 ORDER BY id
	`, studentID)
}

// MarkPaid records a manual payment.
func (r *Repository) MarkPaid(ctx context.Context, id int) (Fee, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE fees SET paid = true, paid_date = NOW()
		WHERE id = $1
		RETURNING id, student_id, amount, due_date, paid, paid_date
	`, id)
	var f Fee
	var due time.Time
	if err := row.Scan(&f.ID, &f.StudentID, &f.Amount, &due, &f.Paid, &f.PaidDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Fee{}, apperr.ErrNotFound
		}
		return Fee{}, err
	}
	f.DueDate = due.Format("2006-01-02")
	return f, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Fee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Fee
	for rows.Next() {
		var f Fee
		var due time.Time
		if err := rows.Scan(&f.ID, &f.StudentID, &f.Amount, &due, &f.Paid, &f.PaidDate); err != nil {
			return nil, err
		}
		f.DueDate = due.Format("2006-01-02")
		res = append(res, f)
	}
	return res, rows.Err()
}
