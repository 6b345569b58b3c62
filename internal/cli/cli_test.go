package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Joseda-hg/lazytodo/internal/config"
	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/snapshot"
)

type harness struct {
	t       *testing.T
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{t: t, cfgPath: filepath.Join(t.TempDir(), "config.json")}
}

// run executes one command against a file-backed store, so every call reloads
// what the previous one saved.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", h.cfgPath, "--storage", config.StorageFile))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	stdout, stderr, err := h.run(args...)
	require.NoError(h.t, err, stderr)
	return stdout
}

func (h *harness) tasks(args ...string) []snapshot.TaskRecord {
	h.t.Helper()
	var records []snapshot.TaskRecord
	out := h.mustRun(append([]string{"list", "-o", "json"}, args...)...)
	require.NoError(h.t, json.Unmarshal([]byte(out), &records))
	return records
}

func (h *harness) categories() []snapshot.CategoryRecord {
	h.t.Helper()
	var records []snapshot.CategoryRecord
	out := h.mustRun("category", "list", "-o", "yaml")
	require.NoError(h.t, yaml.Unmarshal([]byte(out), &records))
	return records
}

func TestAddListAndToggle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Buy", "milk", "--due", "2000-01-01", "--color", "blue")
	assert.Contains(t, out, `"Buy milk" due 2000-01-01`)

	records := h.tasks()
	require.Len(t, records, 1)
	assert.Equal(t, "Buy milk", records[0].Title)
	assert.Equal(t, model.UncategorizedID, records[0].CategoryID)
	assert.Equal(t, "#3b82f6", records[0].Color)
	assert.False(t, records[0].Completed)

	table := h.mustRun("list", "overdue")
	assert.Contains(t, table, "overdue")
	assert.Contains(t, table, "Buy milk")
	assert.Contains(t, table, "Uncategorized")

	out = h.mustRun("done", records[0].ID[:8])
	assert.Contains(t, out, "is now completed")

	assert.Len(t, h.tasks("completed"), 1)
	assert.Empty(t, h.tasks("overdue"))

	out = h.mustRun("done", records[0].ID)
	assert.Contains(t, out, "is now pending")
}

func TestAddValidatesInput(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("add", "No due date")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "due")

	_, _, err = h.run("add", "Bad due", "--due", "tomorrow")
	require.Error(t, err)

	_, _, err = h.run("add", "Unknown category", "--due", "2030-01-01", "--category", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category nope not found")

	_, _, err = h.run("list", "someday")
	require.Error(t, err)

	assert.Empty(t, h.tasks())
}

func TestEditAndRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Draft", "--due", "2030-01-01")
	id := h.tasks()[0].ID

	out := h.mustRun("edit", id, "--title", "Final", "--due", "2030-02-01 10:30", "-d", "report")
	assert.Contains(t, out, `"Final" due 2030-02-01 10:30`)

	records := h.tasks()
	require.Len(t, records, 1)
	assert.Equal(t, "Final", records[0].Title)
	assert.Equal(t, "report", records[0].Description)

	_, _, err := h.run("edit", id, "--title", " ")
	require.Error(t, err)

	h.mustRun("rm", id)
	assert.Empty(t, h.tasks())

	_, _, err = h.run("rm", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	h.mustRun("category", "add", "Work")
	h.mustRun("add", "Write report", "--due", "2030-03-01", "--category", "work", "--color", "red")
	h.mustRun("add", "Team sync", "--due", "2030-03-02 09:00", "--category", "Work", "-d", "weekly")
	h.mustRun("add", "Groceries", "--due", "2030-03-01")

	assert.Len(t, h.tasks("--category", "work"), 2)
	assert.Len(t, h.tasks("--color", "Red"), 1)
	assert.Len(t, h.tasks("--date", "2030-03-01"), 2)
	assert.Len(t, h.tasks("--query", "WEEKLY"), 1)
	assert.Len(t, h.tasks("--category", "work", "--date", "2030-03-01"), 1)
	assert.Empty(t, h.tasks("--date", "not-a-date"))
}

func TestCategoryCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("category", "add", "Work", "--color", "green")
	categories := h.categories()
	require.Len(t, categories, 2)
	assert.Equal(t, model.UncategorizedID, categories[0].ID)
	assert.Equal(t, "Work", categories[1].Name)
	assert.Equal(t, "#22c55e", categories[1].Color)

	h.mustRun("add", "Ship it", "--due", "2030-01-01", "--category", "Work")

	_, _, err := h.run("category", "rm", model.UncategorizedID)
	require.Error(t, err)

	h.mustRun("category", "rename", "work", "Office")
	assert.Equal(t, "Office", h.categories()[1].Name)

	h.mustRun("category", "rm", "office")
	assert.Len(t, h.categories(), 1)

	records := h.tasks()
	require.Len(t, records, 1)
	assert.Equal(t, categories[1].ID, records[0].CategoryID)
	assert.Contains(t, h.mustRun("list"), "Uncategorized")
}

func TestStatsAndExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Pay rent", "--due", "2000-01-01")
	h.mustRun("add", "Conference", "--due", "2999-01-01")
	h.mustRun("done", h.tasks()[1].ID)

	var report struct {
		Summary struct {
			Total          int `json:"total"`
			Completed      int `json:"completed"`
			Overdue        int `json:"overdue"`
			CompletionRate int `json:"completion_rate"`
		} `json:"summary"`
		Weekly []json.RawMessage `json:"weekly"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("stats", "-o", "json")), &report))
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Completed)
	assert.Equal(t, 1, report.Summary.Overdue)
	assert.Equal(t, 50, report.Summary.CompletionRate)
	assert.Len(t, report.Weekly, 7)

	assert.Contains(t, h.mustRun("stats"), "Completion: 50%")

	var doc exportDocument
	require.NoError(t, yaml.Unmarshal([]byte(h.mustRun("export", "-o", "yaml")), &doc))
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "Pay rent", doc.Tasks[0].Title)
	require.Len(t, doc.Categories, 1)

	file := filepath.Join(t.TempDir(), "out", "export.json")
	assert.Contains(t, h.mustRun("export", "--file", file), "Exported 2 tasks")
}

func TestInfoAndSavedConfig(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Buy milk", "--due", "2030-01-01")

	out := h.mustRun("info")
	assert.Contains(t, out, "Storage:   file")
	assert.Contains(t, out, "Snapshots: category-storage, task-storage")

	cfg, err := config.Load(h.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.StorageFile, cfg.Storage)
	assert.Equal(t, filepath.Join(filepath.Dir(h.cfgPath), "data"), cfg.DataDir)
}

func TestResolveTask(t *testing.T) {
	tasks := []model.Task{{ID: "abc123", Title: "one"}, {ID: "abd456", Title: "two"}, {ID: "ab", Title: "exact"}}

	got, err := resolveTask(tasks, "abc")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)

	got, err = resolveTask(tasks, "ab")
	require.NoError(t, err)
	assert.Equal(t, "exact", got.Title)

	_, err = resolveTask(tasks[:2], "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveTask(tasks, "zzz")
	assert.ErrorContains(t, err, "not found")
}
