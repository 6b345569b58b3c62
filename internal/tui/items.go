package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/lazytodo/internal/model"
	"github.com/Joseda-hg/lazytodo/internal/store"
)

func colorName(value string) string {
	if value == "" {
		return "none"
	}
	return model.LabelForColor(value)
}

func formatTaskSummary(task model.Task, category model.Category, now time.Time) string {
	check := " "
	if task.Completed {
		check = "x"
	}
	overdue := ""
	if !task.Completed && task.DueDate.Before(store.StartOfDay(now)) {
		overdue = " !"
	}
	return fmt.Sprintf("[%s] %s | %s%s | %s", check, task.Title, model.FormatDue(task.DueDate), overdue, category.Name)
}

func formatTaskDetail(task model.Task, category model.Category, now time.Time) string {
	status := "pending"
	if task.Completed {
		status = "completed"
	}

	due := model.FormatDue(task.DueDate)
	if !task.DueDate.IsZero() {
		due = fmt.Sprintf("%s (%s)", due, humanize.RelTime(task.DueDate, now, "ago", "from now"))
	}

	lines := []string{
		task.Title,
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("Due: %s", due),
		fmt.Sprintf("Category: %s", category.Name),
		fmt.Sprintf("Color: %s", colorName(task.Color)),
		fmt.Sprintf("Created: %s", humanize.RelTime(task.CreatedAt, now, "ago", "from now")),
	}
	if description := strings.TrimSpace(task.Description); description != "" {
		lines = append(lines, "", description)
	}
	return strings.Join(lines, "\n")
}
