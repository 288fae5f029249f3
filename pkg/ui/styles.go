// Package ui provides the Bubble Tea TUI for SpreadPad.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spreadpad/spreadpad/pkg/ui/components"
)

// Accent colors by persisted theme name. Unknown names fall back to the
// default so a snapshot from a newer build still renders.
var accents = map[string]lipgloss.Color{
	"default": lipgloss.Color("#7C3AED"), // Purple
	"emerald": lipgloss.Color("#10B981"),
	"amber":   lipgloss.Color("#F59E0B"),
	"rose":    lipgloss.Color("#F43F5E"),
	"sky":     lipgloss.Color("#38BDF8"),
}

// themeOrder is the cycle order for the theme hotkey.
var themeOrder = []string{"default", "emerald", "amber", "rose", "sky"}

func nextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// palette resolves the persisted theme name and dark-mode flag into
// concrete colors.
func palette(theme string, dark bool) components.Palette {
	accent, ok := accents[theme]
	if !ok {
		accent = accents["default"]
	}
	if dark {
		return components.Palette{
			Accent:   accent,
			Positive: lipgloss.Color("#10B981"),
			Negative: lipgloss.Color("#EF4444"),
			Warning:  lipgloss.Color("#F59E0B"),
			Muted:    lipgloss.Color("#6B7280"),
			Border:   lipgloss.Color("#374151"),
			Text:     lipgloss.Color("#E5E7EB"),
		}
	}
	return components.Palette{
		Accent:   accent,
		Positive: lipgloss.Color("#059669"),
		Negative: lipgloss.Color("#DC2626"),
		Warning:  lipgloss.Color("#D97706"),
		Muted:    lipgloss.Color("#9CA3AF"),
		Border:   lipgloss.Color("#D1D5DB"),
		Text:     lipgloss.Color("#111827"),
	}
}

func titleStyle(p components.Palette) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Accent).
		Padding(0, 2)
}

func boxStyle(p components.Palette) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
}

func helpStyle(p components.Palette) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
}
