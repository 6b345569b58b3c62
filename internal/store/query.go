package store

import (
	"strings"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

const (
	DateLayout      = "2006-01-02"
	UpcomingHorizon = 7 * 24 * time.Hour
)

// The functions below are pure reads over a task list. They keep insertion
// order and never modify their input.

func Pending(tasks []model.Task) []model.Task {
	return keep(tasks, func(task model.Task) bool { return !task.Completed })
}

func Completed(tasks []model.Task) []model.Task {
	return keep(tasks, func(task model.Task) bool { return task.Completed })
}

// Overdue returns pending tasks due before local midnight of now's day.
func Overdue(tasks []model.Task, now time.Time) []model.Task {
	midnight := StartOfDay(now)
	return keep(tasks, func(task model.Task) bool {
		return !task.Completed && task.DueDate.Before(midnight)
	})
}

func Today(tasks []model.Task, now time.Time) []model.Task {
	return keep(tasks, func(task model.Task) bool {
		return !task.Completed && SameDay(task.DueDate, now)
	})
}

// Upcoming returns pending tasks with now < due <= now+7d.
func Upcoming(tasks []model.Task, now time.Time) []model.Task {
	horizon := now.Add(UpcomingHorizon)
	return keep(tasks, func(task model.Task) bool {
		return !task.Completed && task.DueDate.After(now) && !task.DueDate.After(horizon)
	})
}

// ByDate matches the local calendar date of the due date against a YYYY-MM-DD
// value. An empty value returns every task; an unparseable one matches nothing.
func ByDate(tasks []model.Task, isoDate string) []model.Task {
	value := strings.TrimSpace(isoDate)
	if value == "" {
		return tasks
	}
	day, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return []model.Task{}
	}
	return keep(tasks, func(task model.Task) bool {
		return !task.DueDate.IsZero() && SameDay(task.DueDate, day)
	})
}

func ByColor(tasks []model.Task, color string) []model.Task {
	if color == "" {
		return tasks
	}
	return keep(tasks, func(task model.Task) bool { return task.Color == color })
}

func ByCategory(tasks []model.Task, categoryID string) []model.Task {
	if categoryID == "" {
		return tasks
	}
	return keep(tasks, func(task model.Task) bool { return task.CategoryID == categoryID })
}

// Search matches title or description, ignoring case. A blank query returns
// the input list itself.
func Search(tasks []model.Task, query string) []model.Task {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return tasks
	}
	return keep(tasks, func(task model.Task) bool {
		return strings.Contains(strings.ToLower(task.Title), term) ||
			strings.Contains(strings.ToLower(task.Description), term)
	})
}

func ByTitle(tasks []model.Task, query string) []model.Task {
	term := strings.ToLower(query)
	return keep(tasks, func(task model.Task) bool {
		return strings.Contains(strings.ToLower(task.Title), term)
	})
}

func ForView(tasks []model.Task, view model.View, now time.Time) []model.Task {
	switch view {
	case model.ViewPending:
		return Pending(tasks)
	case model.ViewCompleted:
		return Completed(tasks)
	case model.ViewToday:
		return Today(tasks, now)
	case model.ViewUpcoming:
		return Upcoming(tasks, now)
	case model.ViewOverdue:
		return Overdue(tasks, now)
	default:
		return tasks
	}
}

// Apply intersects the view, category, color, date and search filters.
func Apply(tasks []model.Task, filter model.Filter, now time.Time) []model.Task {
	result := ForView(tasks, filter.View, now)
	result = ByCategory(result, filter.CategoryID)
	result = ByColor(result, filter.Color)
	result = ByDate(result, filter.Date)
	return Search(result, filter.Query)
}

func StartOfDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, value.Location())
}

// SameDay compares calendar dates in the location of b.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func keep(tasks []model.Task, match func(model.Task) bool) []model.Task {
	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if match(task) {
			result = append(result, task)
		}
	}
	return result
}
