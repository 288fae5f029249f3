// Package components provides render-only widgets for the SpreadPad TUI.
// Components never calculate or decide colors; the ui layer prepares both.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette carries the resolved theme colors.
type Palette struct {
	Accent   lipgloss.Color
	Positive lipgloss.Color
	Negative lipgloss.Color
	Warning  lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
	Text     lipgloss.Color
}

// Field is one labeled input row prepared by the ui layer. View holds the
// already-rendered text input.
type Field struct {
	Label   string
	View    string
	Focused bool
}

func renderFields(p Palette, fields []Field) string {
	labelStyle := lipgloss.NewStyle().Foreground(p.Muted).Width(14)
	focusedLabel := lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Width(14)

	var sb strings.Builder
	for _, f := range fields {
		style := labelStyle
		if f.Focused {
			style = focusedLabel
		}
		sb.WriteString("  ")
		sb.WriteString(style.Render(f.Label))
		sb.WriteString(" ")
		sb.WriteString(f.View)
		sb.WriteString("\n")
	}
	return sb.String()
}

// signedValue styles a numeric string by sign: positive green, negative
// red, zero muted.
func signedValue(p Palette, s string) string {
	trimmed := strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(s), "%"), "$")
	switch {
	case strings.HasPrefix(trimmed, "-"):
		return lipgloss.NewStyle().Foreground(p.Negative).Render(s)
	case isZeroNumber(trimmed):
		return lipgloss.NewStyle().Foreground(p.Muted).Render(s)
	default:
		return lipgloss.NewStyle().Foreground(p.Positive).Render(s)
	}
}

func isZeroNumber(s string) bool {
	for _, r := range s {
		if r != '0' && r != '.' {
			return false
		}
	}
	return len(s) > 0
}
