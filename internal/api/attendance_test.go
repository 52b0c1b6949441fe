package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolapp/internal/apperr"
	"schoolapp/internal/attendance"
	"schoolapp/internal/auth"
	"schoolapp/internal/config"
)

// memStore is an in-memory attendance store for route-level tests.
type memStore struct {
	cells   map[string]attendance.Record
	parents map[int]int
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{cells: make(map[string]attendance.Record), parents: make(map[int]int)}
}

func (m *memStore) key(studentID int, date time.Time) string {
	return fmt.Sprintf("%d|%s", studentID, date.Format(attendance.DateLayout))
}

func (m *memStore) Upsert(_ context.Context, studentID int, date time.Time, status attendance.Status) (attendance.Record, error) {
	key := m.key(studentID, date)
	rec, ok := m.cells[key]
	if !ok {
		m.nextID++
		rec = attendance.Record{ID: m.nextID, StudentID: studentID, Date: date.Format(attendance.DateLayout)}
	}
	rec.Status = status
	m.cells[key] = rec
	return rec, nil
}

func (m *memStore) BulkUpsert(ctx context.Context, date time.Time, entries []attendance.Entry) error {
	for _, e := range entries {
		if _, err := m.Upsert(ctx, e.StudentID, date, e.Status); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) ListByStudent(_ context.Context, studentID int, date *time.Time) ([]attendance.Record, error) {
	var res []attendance.Record
	for _, rec := range m.cells {
		if rec.StudentID == studentID {
			if date != nil && rec.Date != date.Format(attendance.DateLayout) {
				continue
			}
			res = append(res, rec)
		}
	}
	return res, nil
}

func (m *memStore) ListByDate(_ context.Context, date time.Time) ([]attendance.Record, error) {
	var res []attendance.Record
	for _, rec := range m.cells {
		if rec.Date == date.Format(attendance.DateLayout) {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (m *memStore) ListByDateForParent(_ context.Context, date time.Time, parentID int) ([]attendance.Record, error) {
	var res []attendance.Record
	for _, rec := range m.cells {
		if rec.Date == date.Format(attendance.DateLayout) && m.parents[rec.StudentID] == parentID {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (m *memStore) ParentID(_ context.Context, studentID int) (*int, error) {
	parentID, ok := m.parents[studentID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &parentID, nil
}

func setupRouter(t *testing.T) (*gin.Engine, config.App, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.App{
		JWTIssuer: "schoolapp-test",
		JWTSecret: "test-secret",
		AccessTTL: time.Minute,
	}
	store := newMemStore()

	r := gin.New()
	Register(r, Deps{
		Cfg:        cfg,
		Attendance: attendance.NewService(store, store),
	})
	return r, cfg, store
}

func bearer(t *testing.T, cfg config.App, userID int, role string) string {
	t.Helper()
	tokens, err := auth.Issue(userID, role, cfg.JWTIssuer, cfg.JWTSecret, cfg.AccessTTL, cfg.AccessTTL)
	require.NoError(t, err)
	return "Bearer " + tokens.AccessToken
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func todayStr() string {
	return time.Now().Format(attendance.DateLayout)
}

func TestMarkAttendanceRoute(t *testing.T) {
	r, cfg, _ := setupRouter(t)
	token := bearer(t, cfg, 2, auth.RoleTeacher)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", token, gin.H{
		"student_id": 42, "date": todayStr(), "status": "Present",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got attendance.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.StudentID)
	assert.Equal(t, attendance.StatusPresent, got.Status)
}

func TestMarkAttendanceRequiresToken(t *testing.T) {
	r, _, _ := setupRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", "", gin.H{
		"student_id": 42, "date": todayStr(), "status": "Present",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkAttendanceParentForbidden(t *testing.T) {
	r, cfg, _ := setupRouter(t)
	token := bearer(t, cfg, 3, auth.RoleParent)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", token, gin.H{
		"student_id": 42, "date": todayStr(), "status": "Present",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMarkAttendanceRejectsBadStatus(t *testing.T) {
	r, cfg, _ := setupRouter(t)
	token := bearer(t, cfg, 2, auth.RoleTeacher)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", token, gin.H{
		"student_id": 42, "date": todayStr(), "status": "Late",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkAttendanceRejectsPastDate(t *testing.T) {
	r, cfg, _ := setupRouter(t)
	token := bearer(t, cfg, 2, auth.RoleTeacher)
	yesterday := time.Now().AddDate(0, 0, -1).Format(attendance.DateLayout)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", token, gin.H{
		"student_id": 42, "date": yesterday, "status": "Present",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "current day")
}

func TestBulkMarkAttendanceRoute(t *testing.T) {
	r, cfg, store := setupRouter(t)
	token := bearer(t, cfg, 1, auth.RoleAdmin)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/bulk-mark", token, gin.H{
		"entries": []gin.H{
			{"student_id": 10, "status": "Present"},
			{"student_id": 11, "status": "Absent"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, store.cells, 2)
}

func TestAttendanceByDateParentGetsEmptyList(t *testing.T) {
	r, cfg, _ := setupRouter(t)
	token := bearer(t, cfg, 3, auth.RoleParent)

	rec := doJSON(t, r, http.MethodGet, "/api/attendance/date/"+todayStr(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAttendanceByStudentParentScope(t *testing.T) {
	r, cfg, store := setupRouter(t)
	store.parents[42] = 3
	store.parents[7] = 99
	teacherToken := bearer(t, cfg, 2, auth.RoleTeacher)
	parentToken := bearer(t, cfg, 3, auth.RoleParent)

	rec := doJSON(t, r, http.MethodPost, "/api/attendance/mark", teacherToken, gin.H{
		"student_id": 42, "date": todayStr(), "status": "Present",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/attendance/student/7", parentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/attendance/student/42", parentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []attendance.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].StudentID)
}
