package model

import "strings"

type PaletteColor struct {
	Label string
	Value string
}

var Palette = []PaletteColor{
	{Label: "Red", Value: "#ef4444"},
	{Label: "Orange", Value: "#f97316"},
	{Label: "Yellow", Value: "#eab308"},
	{Label: "Green", Value: "#22c55e"},
	{Label: "Blue", Value: "#3b82f6"},
	{Label: "Purple", Value: "#a855f7"},
	{Label: "Pink", Value: "#ec4899"},
}

func ColorByLabel(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	for _, color := range Palette {
		if strings.EqualFold(color.Label, trimmed) {
			return color.Value, true
		}
	}
	return "", false
}

func LabelForColor(value string) string {
	for _, color := range Palette {
		if strings.EqualFold(color.Value, value) {
			return color.Label
		}
	}
	return value
}

// NormalizeColor accepts a palette label or a raw color token.
func NormalizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if hex, ok := ColorByLabel(trimmed); ok {
		return hex
	}
	return strings.ToLower(trimmed)
}
