package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

var testNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.Local)

type testServer struct {
	tasks      *store.TaskStore
	categories *store.CategoryStore
	handler    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	adapter := snapshot.NewAdapter(snapshot.NewMemoryBackend(), log.New(io.Discard, "", 0))
	clock := store.WithClock(func() time.Time { return testNow })

	tasks, err := store.NewTaskStore(context.Background(), adapter, clock)
	require.NoError(t, err)
	categories, err := store.NewCategoryStore(context.Background(), adapter, clock)
	require.NoError(t, err)

	return &testServer{tasks: tasks, categories: categories, handler: NewServer(tasks, categories).Handler()}
}

func (s *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	res := httptest.NewRecorder()
	s.handler.ServeHTTP(res, req)
	return res
}

func TestCreateTaskRequiresTitleAndDue(t *testing.T) {
	srv := newTestServer(t)

	res := srv.request(http.MethodPost, "/api/tasks", map[string]any{"dueDate": "2026-10-18"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = srv.request(http.MethodPost, "/api/tasks", map[string]any{"title": "Buy milk"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	assert.Empty(t, srv.tasks.AllTasks())
}

func TestCreateToggleAndListByView(t *testing.T) {
	srv := newTestServer(t)

	res := srv.request(http.MethodPost, "/api/tasks", map[string]any{
		"title":   "Buy milk",
		"dueDate": "2026-10-18 09:00",
		"color":   "blue",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created snapshot.TaskRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, "#3b82f6", created.Color)
	assert.Equal(t, model.UncategorizedID, created.CategoryID)

	res = srv.request(http.MethodGet, "/api/tasks?view=today", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var today []snapshot.TaskRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &today))
	require.Len(t, today, 1)
	assert.Equal(t, created.ID, today[0].ID)

	res = srv.request(http.MethodPost, "/api/tasks/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = srv.request(http.MethodGet, "/api/tasks?view=completed", nil)
	var completed []snapshot.TaskRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &completed))
	require.Len(t, completed, 1)
	assert.True(t, completed[0].Completed)

	res = srv.request(http.MethodGet, "/api/tasks?view=someday", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPatchAndDeleteTask(t *testing.T) {
	srv := newTestServer(t)
	created := srv.tasks.AddTask(model.TaskInput{Title: "Draft", DueDate: testNow})

	res := srv.request(http.MethodPatch, "/api/tasks/"+created.ID, map[string]any{"title": "Final", "dueDate": "2026-10-20"})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	got, ok := srv.tasks.Task(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "2026-10-20", got.DueDate.Format("2006-01-02"))

	res = srv.request(http.MethodPatch, "/api/tasks/"+created.ID, map[string]any{"title": " "})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = srv.request(http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = srv.request(http.MethodGet, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestPatchEmptyCategoryStoresUncategorized(t *testing.T) {
	srv := newTestServer(t)
	created := srv.tasks.AddTask(model.TaskInput{Title: "Filed", CategoryID: "work", DueDate: testNow})

	res := srv.request(http.MethodPatch, "/api/tasks/"+created.ID, map[string]any{"categoryId": ""})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var record snapshot.TaskRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &record))
	assert.Equal(t, model.UncategorizedID, record.CategoryID)
	assert.Len(t, srv.tasks.FilterByCategory(model.UncategorizedID), 1)
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	res := srv.request(http.MethodPost, "/api/categories", map[string]any{"name": "Work", "color": "red"})
	require.Equal(t, http.StatusCreated, res.Code)
	var work snapshot.CategoryRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &work))
	assert.Equal(t, "#ef4444", work.Color)

	res = srv.request(http.MethodDelete, "/api/categories/"+model.UncategorizedID, nil)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = srv.request(http.MethodDelete, "/api/categories/"+work.ID, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = srv.request(http.MethodGet, "/api/categories", nil)
	var categories []snapshot.CategoryRecord
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, model.UncategorizedID, categories[0].ID)
}

func TestStatsAndIndexPage(t *testing.T) {
	srv := newTestServer(t)
	srv.tasks.AddTask(model.TaskInput{Title: "Pay rent", DueDate: testNow.AddDate(0, 0, -1)})
	done := srv.tasks.AddTask(model.TaskInput{Title: "Conference", DueDate: testNow.AddDate(0, 0, 3)})
	srv.tasks.ToggleTask(done.ID)

	res := srv.request(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var stats struct {
		Summary struct {
			Total          int `json:"total"`
			Overdue        int `json:"overdue"`
			CompletionRate int `json:"completion_rate"`
		} `json:"summary"`
		Weekly []json.RawMessage `json:"weekly"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Summary.Total)
	assert.Equal(t, 1, stats.Summary.Overdue)
	assert.Equal(t, 50, stats.Summary.CompletionRate)
	assert.Len(t, stats.Weekly, 7)

	res = srv.request(http.MethodGet, "/?view=overdue", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Pay rent")
	assert.False(t, strings.Contains(body, ">Conference<"))

	res = srv.request(http.MethodGet, "/tasks/"+done.ID, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Conference")
}
