package snapshot

import (
	"fmt"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

// TimestampLayout is the on-disk representation of every date-time field.
const TimestampLayout = time.RFC3339Nano

type TaskRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CategoryID  string `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
}

type CategoryRecord struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

func TaskToRecord(task model.Task) TaskRecord {
	return TaskRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CategoryID:  task.CategoryID,
		Color:       task.Color,
		Completed:   task.Completed,
		DueDate:     formatTimestamp(task.DueDate),
		CreatedAt:   formatTimestamp(task.CreatedAt),
	}
}

func TaskFromRecord(record TaskRecord) (model.Task, error) {
	dueDate, err := parseTimestamp(record.DueDate)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s dueDate: %w", record.ID, err)
	}
	createdAt, err := parseTimestamp(record.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s createdAt: %w", record.ID, err)
	}

	categoryID := record.CategoryID
	if categoryID == "" {
		categoryID = model.UncategorizedID
	}

	return model.Task{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		CategoryID:  categoryID,
		Color:       record.Color,
		Completed:   record.Completed,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
	}, nil
}

func CategoryToRecord(category model.Category) CategoryRecord {
	return CategoryRecord{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: formatTimestamp(category.CreatedAt),
	}
}

func CategoryFromRecord(record CategoryRecord) (model.Category, error) {
	createdAt, err := parseTimestamp(record.CreatedAt)
	if err != nil {
		return model.Category{}, fmt.Errorf("category %s createdAt: %w", record.ID, err)
	}
	return model.Category{
		ID:        record.ID,
		Name:      record.Name,
		Color:     record.Color,
		CreatedAt: createdAt,
	}, nil
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(TimestampLayout)
}

// parseTimestamp returns the instant in local time; a blank field is the zero time.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.Local(), nil
}
