// Package attendance implements daily attendance marking: one status per
// student per calendar day, upserted idempotently, with visibility scoped by
// the caller's role.
package attendance

import (
	"context"
	"time"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Status is a per-day attendance value.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Valid reports whether s is an accepted status.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Record is one (student, date) attendance cell.
type Record struct {
	ID        int    `json:"id"`
	StudentID int    `json:"student_id"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
}

// Entry is one bulk-mark item; the date is always the current day.
type Entry struct {
	StudentID int    `json:"student_id" binding:"required"`
	Status    Status `json:"status" binding:"required"`
}

// Store persists attendance cells. BulkUpsert must apply all entries in a
// single transaction: on error nothing is visible.
type Store interface {
	Upsert(ctx context.Context, studentID int, date time.Time, status Status) (Record, error)
	BulkUpsert(ctx context.Context, date time.Time, entries []Entry) error
	ListByStudent(ctx context.Context, studentID int, date *time.Time) ([]Record, error)
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)
	ListByDateForParent(ctx context.Context, date time.Time, parentID int) ([]Record, error)
}

// ParentLookup resolves a student's parent for ownership checks. Returns
// apperr.ErrNotFound when the student does not exist; a nil parent id means
// the student has no parent on file.
type ParentLookup interface {
	ParentID(ctx context.Context, studentID int) (*int, error)
}

// Service coordinates attendance marking and role-scoped reads.
type Service struct {
	store    Store
	students ParentLookup
	now      func() time.Time
}

// NewService creates a service backed by a store and the student relation.
func NewService(store Store, students ParentLookup) *Service {
	return &Service{store: store, students: students, now: time.Now}
}

// Mark upserts the cell for (studentID, date). The date must equal the
// current server date; marking past or future days is rejected.
func (s *Service) Mark(ctx context.Context, caller auth.Identity, studentID int, date string, status Status) (Record, error) {
	if err := auth.Authorize(caller, auth.Staff...); err != nil {
		return Record{}, err
	}
	if studentID <= 0 {
		return Record{}, apperr.Invalidf("student_id is required")
	}
	if !status.Valid() {
		return Record{}, apperr.Invalidf("status must be %s or %s", StatusPresent, StatusAbsent)
	}
	day, err := s.parseToday(date)
	if err != nil {
		return Record{}, err
	}
	return s.store.Upsert(ctx, studentID, day, status)
}

// BulkMark applies Mark semantics for every entry against today's date as a
// single all-or-nothing transaction. An empty batch succeeds without
// touching the store; duplicate student ids are allowed, the last one wins.
func (s *Service) BulkMark(ctx context.Context, caller auth.Identity, entries []Entry) error {
	if err := auth.Authorize(caller, auth.Staff...); err != nil {
		return err
	}
	for _, e := range entries {
		if e.StudentID <= 0 {
			return apperr.Invalidf("student_id is required")
		}
		if !e.Status.Valid() {
			return apperr.Invalidf("status must be %s or %s", StatusPresent, StatusAbsent)
		}
	}
	if len(entries) == 0 {
		return nil
	}
	today := s.truncate(s.now())
	return s.store.BulkUpsert(ctx, today, entries)
}

// GetByStudent returns a student's records, optionally filtered to one date.
// Parents may only read their own children.
func (s *Service) GetByStudent(ctx context.Context, caller auth.Identity, studentID int, date string) ([]Record, error) {
	if err := auth.Authorize(caller, auth.RoleAdmin, auth.RoleTeacher, auth.RoleParent); err != nil {
		return nil, err
	}
	if caller.Role == auth.RoleParent {
		parentID, err := s.students.ParentID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if parentID == nil || *parentID != caller.ID {
			return nil, apperr.ErrForbidden
		}
	}

	var filter *time.Time
	if date != "" {
		day, err := time.Parse(DateLayout, date)
		if err != nil {
			return nil, apperr.Invalidf("invalid date %q, expected YYYY-MM-DD", date)
		}
		filter = &day
	}
	records, err := s.store.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}
	return nonNil(records), nil
}

// GetByDate returns all records for a day. Parents see only records of their
// own children; a parent with no children gets an empty list, not an error.
func (s *Service) GetByDate(ctx context.Context, caller auth.Identity, date string) ([]Record, error) {
	if err := auth.Authorize(caller, auth.RoleAdmin, auth.RoleTeacher, auth.RoleParent); err != nil {
		return nil, err
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, apperr.Invalidf("invalid date %q, expected YYYY-MM-DD", date)
	}

	var records []Record
	if caller.Role == auth.RoleParent {
		records, err = s.store.ListByDateForParent(ctx, day, caller.ID)
	} else {
		records, err = s.store.ListByDate(ctx, day)
	}
	if err != nil {
		return nil, err
	}
	return nonNil(records), nil
}

// parseToday normalizes the supplied date and enforces the current-day rule.
func (s *Service) parseToday(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, apperr.Invalidf("date is required")
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, apperr.Invalidf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if day.Format(DateLayout) != s.now().Format(DateLayout) {
		return time.Time{}, apperr.Invalidf("attendance can only be marked for the current day")
	}
	return day, nil
}

func (s *Service) truncate(t time.Time) time.Time {
	day, _ := time.Parse(DateLayout, t.Format(DateLayout))
	return day
}

func nonNil(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
