package model

import (
	"strings"
	"time"
)

const (
	UncategorizedID   = "uncategorized"
	UncategorizedName = "Uncategorized"
)

type Task struct {
	ID          string
	Title       string
	Description string
	CategoryID  string
	Color       string
	Completed   bool
	DueDate     time.Time
	CreatedAt   time.Time
}

type Category struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// TaskInput carries the caller-supplied fields of a new task. Title must be
// non-empty; callers validate before handing it to the store.
type TaskInput struct {
	Title       string
	Description string
	CategoryID  string
	Color       string
	DueDate     time.Time
}

// TaskPatch holds the fields to merge into an existing task. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	Color       *string
	Completed   *bool
	DueDate     *time.Time
}

type CategoryPatch struct {
	Name  *string
	Color *string
}

type View string

const (
	ViewAll       View = "all"
	ViewPending   View = "pending"
	ViewToday     View = "today"
	ViewUpcoming  View = "upcoming"
	ViewCompleted View = "completed"
	ViewOverdue   View = "overdue"
)

// Views lists the views shown by the surfaces, in display order.
var Views = []View{ViewAll, ViewToday, ViewUpcoming, ViewCompleted, ViewOverdue}

func ParseView(value string) (View, bool) {
	trimmed := View(strings.TrimSpace(strings.ToLower(value)))
	if trimmed == "" {
		return ViewAll, true
	}
	switch trimmed {
	case ViewAll, ViewPending, ViewToday, ViewUpcoming, ViewCompleted, ViewOverdue:
		return trimmed, true
	}
	return "", false
}

func (v View) Label() string {
	if v == "" {
		return "All"
	}
	return strings.ToUpper(string(v[:1])) + string(v[1:])
}

// Filter composes the store's filters. Empty fields do not filter.
type Filter struct {
	View       View   `json:"view" yaml:"view"`
	CategoryID string `json:"category_id" yaml:"category_id"`
	Color      string `json:"color" yaml:"color"`
	Date       string `json:"date" yaml:"date"`
	Query      string `json:"query" yaml:"query"`
}

func StringPtr(value string) *string {
	return &value
}

func BoolPtr(value bool) *bool {
	return &value
}

func TimePtr(value time.Time) *time.Time {
	return &value
}
