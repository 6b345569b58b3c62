package model

import (
	"fmt"
	"strings"
	"time"
)

var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDue reads a due date typed by a user: RFC 3339, "YYYY-MM-DD HH:MM" or
// "YYYY-MM-DD" (local midnight).
func ParseDue(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("due date is required")
	}
	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.Local(), nil
	}
	for _, layout := range dueLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", trimmed)
}

func FormatDue(value time.Time) string {
	if value.IsZero() {
		return "none"
	}
	if value.Hour() == 0 && value.Minute() == 0 {
		return value.Format("2006-01-02")
	}
	return value.Format("2006-01-02 15:04")
}
