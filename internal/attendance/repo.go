package attendance

import (
	"context"
	"database/sql"
	"time"
)

// Repository persists attendance cells in Postgres. The attendance table
// carries UNIQUE (student_id, date); the upsert relies on it for
// at-most-one-row semantics under concurrent marks.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const upsertSQL = `
	INSERT INTO attendance (student_id, date, status)
	VALUES ($1, $2, $3)
	ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status
	RETURNING id, student_id, date, status
`

// Upsert inserts or overwrites the cell for (studentID, date).
func (r *Repository) Upsert(ctx context.Context, studentID int, date time.Time, status Status) (Record, error) {
	row := r.db.QueryRowContext(ctx, upsertSQL, studentID, date, status)
	return scanRecord(row)
}

// BulkUpsert applies every entry against the same date inside one
// transaction; any failure rolls the whole batch back.
func (r *Repository) BulkUpsert(ctx context.Context, date time.Time, entries []Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (student_id, date, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status
		`, e.StudentID, date, e.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByStudent returns a student's records, optionally restricted to a date.
func (r *Repository) ListByStudent(ctx context.Context, studentID int, date *time.Time) ([]Record, error) {
	query := `SELECT id, student_id, date, status FROM attendance WHERE student_id = $1`
	args := []any{studentID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY date`
	return r.queryRecords(ctx, query, args...)
}

// ListByDate returns all records for a day.
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT id, student_id, date, status FROM attendance WHERE date = $1
	`, date)
}

// ListByDateForParent returns the day's records restricted to students
// belonging to the given parent.
func (r *Repository) ListByDateForParent(ctx context.Context, date time.Time, parentID int) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT a.id, a.student_id, a.date, a.status
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date = $1 AND s.parent_id = $2
	`, date, parentID)
}

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &day, &rec.Status); err != nil {
			return nil, err
		}
		rec.Date = day.Format(DateLayout)
		res = append(res, rec)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var day time.Time
	if err := row.Scan(&rec.ID, &rec.StudentID, &day, &rec.Status); err != nil {
		return Record{}, err
	}
	rec.Date = day.Format(DateLayout)
	return rec, nil
}
