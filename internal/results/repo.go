// Package results stores per-subject exam results.
package results

import (
	"context"
	"database/sql"
)

// Result is one subject's marks for a student in an exam.
type Result struct {
	ID         int    `json:"id"`
	StudentID  int    `json:"student_id"`
	Subject    string `json:"subject"`
	Marks      int    `json:"marks"`
	TotalMarks int    `json:"totalmarks"`
	Grade      string `json:"grade"`
	Exam       string `json:"exam"`
}

// Repository persists results in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AddBatch inserts all subject results for one exam in a single
// transaction; any failure rolls the whole batch back.
func (r *Repository) AddBatch(ctx context.Context, studentID int, exam string, subjects []Result) ([]Result, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inserted := make([]Result, 0, len(subjects))
	for _, subj := range subjects {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO results (student_id, subject, marks, totalmarks, grade, exam)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, studentID, subj.Subject, subj.Marks, subj.TotalMarks, subj.Grade, exam)
		subj.StudentID = studentID
		subj.Exam = exam
		if err := row.Scan(&subj.ID); err != nil {
			return nil, err
		}
		inserted = append(inserted, subj)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// ListByStudent returns a student's results ordered by exam and subject.
func (r *Repository) ListByStudent(ctx context.Context, studentID int) ([]Result, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, subject, marks, totalmarks, grade, exam
		FROM results WHERE student_id = $1
		ORDER BY exam, subject
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Result
	for rows.Next() {
		var rec Result
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Subject, &rec.Marks, &rec.TotalMarks, &rec.Grade, &rec.Exam); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
