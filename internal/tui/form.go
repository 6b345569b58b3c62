package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazytodo/internal/model"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCategory
	fieldColor
)

// buildFormFields prefills a new task due at the start of tomorrow. The
// category and color fields hold the category id and color value.
func buildFormFields(task *model.Task, now time.Time) []formField {
	fields := []formField{
		{Label: "Title"},
		{Label: "Description"},
		{Label: "Due (YYYY-MM-DD [HH:MM])"},
		{Label: "Category (space/←→)"},
		{Label: "Color (space/←→)"},
	}

	if task == nil {
		y, m, d := now.Date()
		fields[fieldDue].Value = time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		fields[fieldCategory].Value = model.UncategorizedID
		return fields
	}

	fields[fieldTitle].Value = task.Title
	fields[fieldDescription].Value = task.Description
	fields[fieldDue].Value = model.FormatDue(task.DueDate)
	fields[fieldCategory].Value = task.CategoryID
	fields[fieldColor].Value = task.Color
	return fields
}

func parseFormFields(fields []formField) (model.TaskInput, error) {
	title := strings.TrimSpace(fields[fieldTitle].Value)
	if title == "" {
		return model.TaskInput{}, fmt.Errorf("title is required")
	}

	due, err := model.ParseDue(fields[fieldDue].Value)
	if err != nil {
		return model.TaskInput{}, err
	}

	return model.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(fields[fieldDescription].Value),
		CategoryID:  strings.TrimSpace(fields[fieldCategory].Value),
		Color:       model.NormalizeColor(fields[fieldColor].Value),
		DueDate:     due,
	}, nil
}

func patchFromInput(input model.TaskInput) model.TaskPatch {
	return model.TaskPatch{
		Title:       model.StringPtr(input.Title),
		Description: model.StringPtr(input.Description),
		CategoryID:  model.StringPtr(input.CategoryID),
		Color:       model.StringPtr(input.Color),
		DueDate:     model.TimePtr(input.DueDate),
	}
}

func parseCategoryInput(value string) (string, string) {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if _, ok := model.ColorByLabel(last); ok || strings.HasPrefix(last, "#") {
			return strings.Join(parts[:len(parts)-1], " "), model.NormalizeColor(last)
		}
	}
	return strings.Join(parts, " "), ""
}

func cycleCategory(categories []model.Category, current string, delta int) string {
	if len(categories) == 0 {
		return current
	}
	index := 0
	for i, category := range categories {
		if category.ID == current {
			index = i
			break
		}
	}
	index = (index + delta + len(categories)) % len(categories)
	return categories[index].ID
}

// colorOptions is "no color" followed by the palette values.
func colorOptions() []string {
	options := make([]string, 0, len(model.Palette)+1)
	options = append(options, "")
	for _, entry := range model.Palette {
		options = append(options, entry.Value)
	}
	return options
}

func nextColor(current string) string {
	return cycleColor(colorOptions(), current, 1)
}

func prevColor(current string) string {
	return cycleColor(colorOptions(), current, -1)
}

func cycleColor(options []string, current string, delta int) string {
	value := model.NormalizeColor(current)
	index := 0
	for i, option := range options {
		if option == value {
			index = i
			break
		}
	}
	index = (index + delta + len(options)) % len(options)
	return options[index]
}
