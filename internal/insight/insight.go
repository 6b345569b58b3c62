// Package insight derives dashboard statistics from a task list.
package insight

import (
	"math"
	"sort"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

type Summary struct {
	Total          int `json:"total" yaml:"total"`
	Pending        int `json:"pending" yaml:"pending"`
	Completed      int `json:"completed" yaml:"completed"`
	Overdue        int `json:"overdue" yaml:"overdue"`
	CompletionRate int `json:"completion_rate" yaml:"completion_rate"`
}

type DayCount struct {
	Day       time.Time `json:"day" yaml:"day"`
	Completed int       `json:"completed" yaml:"completed"`
}

// Summarize counts tasks; CompletionRate is a whole percentage.
func Summarize(tasks []model.Task, now time.Time) Summary {
	summary := Summary{
		Total:     len(tasks),
		Pending:   len(store.Pending(tasks)),
		Completed: len(store.Completed(tasks)),
		Overdue:   len(store.Overdue(tasks, now)),
	}
	if summary.Total > 0 {
		summary.CompletionRate = int(math.Round(float64(summary.Completed) / float64(summary.Total) * 100))
	}
	return summary
}

// DueSoon returns up to n pending tasks due at or after now, soonest first.
func DueSoon(tasks []model.Task, now time.Time, n int) []model.Task {
	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed && !task.DueDate.Before(now) {
			result = append(result, task)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	if n >= 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// WeeklyProductivity buckets completed tasks by the local day they were
// created, for the seven days ending today, oldest first.
func WeeklyProductivity(tasks []model.Task, now time.Time) []DayCount {
	today := store.StartOfDay(now)
	days := make([]DayCount, 7)
	for i := range days {
		days[i].Day = today.AddDate(0, 0, i-6)
	}
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		for i := range days {
			if store.SameDay(task.CreatedAt, days[i].Day) {
				days[i].Completed++
				break
			}
		}
	}
	return days
}
