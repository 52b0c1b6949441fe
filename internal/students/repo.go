// Package students owns the student roster, including the parent relation
// that attendance and fees use for ownership checks.
package students

import (
	"context"
	"database/sql"
	"errors"

	"schoolapp/internal/apperr"
)

// Student is one enrolled student. ParentID links to a parent user account
// and may be unset.
type Student struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	ParentID *int   `json:"parent_id,omitempty"`
	RollNo   string `json:"roll_no"`
}

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a student.
func (r *Repository) Add(ctx context.Context, s Student) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, class, parent_id, roll_no)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, s.Name, s.Class, s.ParentID, s.RollNo)
	if err := row.Scan(&s.ID); err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update overwrites a student's fields.
func (r *Repository) Update(ctx context.Context, s Student) (Student, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET name = $1, class = $2, parent_id = $3, roll_no = $4
		WHERE id = $5
	`, s.Name, s.Class, s.ParentID, s.RollNo, s.ID)
	if err != nil {
		return Student{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Student{}, apperr.ErrNotFound
	}
	return s, nil
}

// List returns all students.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, class, parent_id, roll_no FROM students ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Class, &s.ParentID, &s.RollNo); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Get returns one student by id.
func (r *Repository) Get(ctx context.Context, id int) (Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, class, parent_id, roll_no FROM students WHERE id = $1
	`, id)
	var s Student
	if err := row.Scan(&s.ID, &s.Name, &s.Class, &s.ParentID, &s.RollNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, apperr.ErrNotFound
		}
		return Student{}, err
	}
	return s, nil
}

// ParentID returns the parent of a student, or nil when none is set.
// Satisfies the attendance parent lookup.
func (r *Repository) ParentID(ctx context.Context, studentID int) (*int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT parent_id FROM students WHERE id = $1`, studentID)
	var parentID *int
	if err := row.Scan(&parentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return parentID, nil
}

// Delete removes a student together with its fee and attendance records,
// in one transaction. Refused while unpaid fees remain.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var unpaid int
	row := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM fees WHERE student_id = $1 AND paid = false
	`, id)
	if err := row.Scan(&unpaid); err != nil {
		return err
	}
	if unpaid > 0 {
		return apperr.Invalidf("clear all pending fees before deleting this student")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fees WHERE student_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE student_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}
