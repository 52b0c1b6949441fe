package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
)

var errStorage = errors.New("storage fault")

// fakeStore keeps cells in a map keyed by (student, date) and mimics the
// transactional bulk path: entries apply to a staging copy that is only
// committed when every entry succeeds.
type fakeStore struct {
	cells      map[string]Record
	parents    map[int]int // student -> parent
	nextID     int
	failOnMark int // student id whose upsert fails
}

func newFakeStore() *fakeStore {
	return &fakeStore{cells: make(map[string]Record), parents: make(map[int]int)}
}

func cellKey(studentID int, date time.Time) string {
	return fmt.Sprintf("%d|%s", studentID, date.Format(DateLayout))
}

func (f *fakeStore) Upsert(_ context.Context, studentID int, date time.Time, status Status) (Record, error) {
	if studentID == f.failOnMark {
		return Record{}, errStorage
	}
	key := cellKey(studentID, date)
	rec, ok := f.cells[key]
	if !ok {
		f.nextID++
		rec = Record{ID: f.nextID, StudentID: studentID, Date: date.Format(DateLayout)}
	}
	rec.Status = status
	f.cells[key] = rec
	return rec, nil
}

func (f *fakeStore) BulkUpsert(ctx context.Context, date time.Time, entries []Entry) error {
	staged := make(map[string]Record, len(f.cells))
	for k, v := range f.cells {
		staged[k] = v
	}
	original := f.cells
	f.cells = staged
	for _, e := range entries {
		if _, err := f.Upsert(ctx, e.StudentID, date, e.Status); err != nil {
			f.cells = original
			return err
		}
	}
	return nil
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID int, date *time.Time) ([]Record, error) {
	var res []Record
	for _, rec := range f.cells {
		if rec.StudentID != studentID {
			continue
		}
		if date != nil && rec.Date != date.Format(DateLayout) {
			continue
		}
		res = append(res, rec)
	}
	return res, nil
}

func (f *fakeStore) ListByDate(_ context.Context, date time.Time) ([]Record, error) {
	var res []Record
	for _, rec := range f.cells {
		if rec.Date == date.Format(DateLayout) {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (f *fakeStore) ListByDateForParent(_ context.Context, date time.Time, parentID int) ([]Record, error) {
	var res []Record
	for _, rec := range f.cells {
		if rec.Date == date.Format(DateLayout) && f.parents[rec.StudentID] == parentID {
			res = append(res, rec)
		}
	}
	return res, nil
}

// ParentID satisfies ParentLookup from the same relation the store filters on.
func (f *fakeStore) ParentID(_ context.Context, studentID int) (*int, error) {
	parentID, ok := f.parents[studentID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if parentID == 0 {
		return nil, nil
	}
	return &parentID, nil
}

var (
	admin   = auth.Identity{ID: 1, Role: auth.RoleAdmin}
	teacher = auth.Identity{ID: 2, Role: auth.RoleTeacher}
	parent  = auth.Identity{ID: 3, Role: auth.RoleParent}
)

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewService(store, store)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	}
	return svc, store
}

const today = "2025-03-10"

func TestMarkIdempotentUpsert(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	require.NoError(t, err)
	second, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.cells, 1)
	assert.Equal(t, StatusPresent, store.cells[cellKey(42, mustDate(t, today))].Status)
}

func TestMarkOverwritesStatus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Mark(ctx, admin, 42, today, StatusPresent)
	require.NoError(t, err)
	rec, err := svc.Mark(ctx, admin, 42, today, StatusAbsent)
	require.NoError(t, err)

	assert.Equal(t, StatusAbsent, rec.Status)
	assert.Len(t, store.cells, 1)
}

func TestMarkTodayOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2025-03-09", "2025-03-11"} {
		_, err := svc.Mark(ctx, teacher, 42, date, StatusPresent)
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, "date %s", date)
	}

	_, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	assert.NoError(t, err)
}

func TestMarkValidation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher, 0, today, StatusPresent)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Mark(ctx, teacher, 42, today, Status("Late"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Mark(ctx, teacher, 42, "", StatusPresent)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Mark(ctx, teacher, 42, "10-03-2025", StatusPresent)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	assert.Empty(t, store.cells, "no write may happen on validation failure")
}

func TestMarkRoleGating(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Mark(context.Background(), parent, 42, today, StatusPresent)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, store.cells)
}

func TestBulkMarkAtomicity(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	store.failOnMark = 12 // third entry faults

	entries := []Entry{
		{StudentID: 10, Status: StatusPresent},
		{StudentID: 11, Status: StatusAbsent},
		{StudentID: 12, Status: StatusPresent},
		{StudentID: 13, Status: StatusPresent},
		{StudentID: 14, Status: StatusAbsent},
	}
	err := svc.BulkMark(ctx, teacher, entries)
	require.ErrorIs(t, err, errStorage)

	for _, e := range entries {
		records, err := svc.GetByStudent(ctx, admin, e.StudentID, today)
		require.NoError(t, err)
		assert.Empty(t, records, "student %d must have no record after rollback", e.StudentID)
	}
}

func TestBulkMarkEmptyBatch(t *testing.T) {
	svc, store := newTestService(t)

	require.NoError(t, svc.BulkMark(context.Background(), teacher, nil))
	assert.Empty(t, store.cells)
}

func TestBulkMarkDuplicateStudentLastWins(t *testing.T) {
	svc, store := newTestService(t)

	err := svc.BulkMark(context.Background(), admin, []Entry{
		{StudentID: 42, Status: StatusPresent},
		{StudentID: 42, Status: StatusAbsent},
	})
	require.NoError(t, err)

	assert.Len(t, store.cells, 1)
	assert.Equal(t, StatusAbsent, store.cells[cellKey(42, mustDate(t, today))].Status)
}

func TestBulkMarkRoleGating(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.BulkMark(context.Background(), parent, []Entry{{StudentID: 42, Status: StatusPresent}})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestGetByStudentParentScoping(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	store.parents[42] = parent.ID
	store.parents[7] = 99

	_, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	require.NoError(t, err)
	_, err = svc.Mark(ctx, teacher, 7, today, StatusPresent)
	require.NoError(t, err)

	_, err = svc.GetByStudent(ctx, parent, 7, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	records, err := svc.GetByStudent(ctx, parent, 42, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].StudentID)
}

func TestGetByStudentUnknownStudent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByStudent(context.Background(), parent, 404, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetByStudentDateFilter(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	require.NoError(t, err)
	// an older record, inserted behind the service's back
	old := mustDate(t, "2025-03-01")
	_, err = store.Upsert(ctx, 42, old, StatusAbsent)
	require.NoError(t, err)

	records, err := svc.GetByStudent(ctx, admin, 42, today)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, today, records[0].Date)

	records, err = svc.GetByStudent(ctx, admin, 42, "")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGetByDateScoping(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	store.parents[42] = parent.ID
	store.parents[7] = 99

	_, err := svc.Mark(ctx, teacher, 42, today, StatusPresent)
	require.NoError(t, err)
	_, err = svc.Mark(ctx, teacher, 7, today, StatusAbsent)
	require.NoError(t, err)

	all, err := svc.GetByDate(ctx, teacher, today)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.GetByDate(ctx, parent, today)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 42, own[0].StudentID)
}

func TestGetByDateParentWithNoChildren(t *testing.T) {
	svc, _ := newTestService(t)

	records, err := svc.GetByDate(context.Background(), parent, today)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGetByDateInvalidDate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByDate(context.Background(), teacher, "not-a-date")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return day
}
