package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

var now = time.Date(2026, 10, 18, 14, 0, 0, 0, time.Local)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "rent", Title: "Pay rent", DueDate: now.AddDate(0, 0, -1), CreatedAt: now.AddDate(0, 0, -3)},
		{ID: "milk", Title: "Buy milk", DueDate: now.Add(2 * time.Hour), CreatedAt: now},
		{ID: "conf", Title: "Conference", DueDate: now.AddDate(0, 0, 3), CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "gym", Title: "Gym", DueDate: now.AddDate(0, 0, 1), CreatedAt: now.AddDate(0, 0, -1), Completed: true},
		{ID: "tax", Title: "Taxes", DueDate: now.AddDate(0, 0, -10), CreatedAt: now.AddDate(0, 0, -20), Completed: true},
		{ID: "call", Title: "Call mom", DueDate: now.AddDate(0, 0, 1), CreatedAt: now.AddDate(0, 0, -6), Completed: true},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleTasks(), now)

	assert.Equal(t, Summary{Total: 6, Pending: 3, Completed: 3, Overdue: 1, CompletionRate: 50}, summary)
	assert.Equal(t, Summary{}, Summarize(nil, now))
}

func TestDueSoon(t *testing.T) {
	soon := DueSoon(sampleTasks(), now, 2)

	require.Len(t, soon, 2)
	assert.Equal(t, "milk", soon[0].ID)
	assert.Equal(t, "conf", soon[1].ID)
}

func TestWeeklyProductivity(t *testing.T) {
	days := WeeklyProductivity(sampleTasks(), now)

	require.Len(t, days, 7)
	assert.True(t, days[6].Day.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local)))
	assert.True(t, days[0].Day.Equal(time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, 1, days[0].Completed)
	assert.Equal(t, 1, days[5].Completed)
	assert.Equal(t, 0, days[6].Completed)
}
