package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status summarizes the ambient app state shown in the bottom bar.
type Status struct {
	RatePair  string
	Rate      string
	RateStale bool
	Pending   bool
	User      string
	UpdateTo  string
	Notice    string
}

// StatusBar renders the bottom status line.
type StatusBar struct{}

// NewStatusBar creates a status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// View renders the bar segments joined by separators.
func (s *StatusBar) View(p Palette, st Status) string {
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)
	okStyle := lipgloss.NewStyle().Foreground(p.Positive)
	warnStyle := lipgloss.NewStyle().Foreground(p.Warning)
	dangerStyle := lipgloss.NewStyle().Foreground(p.Negative)

	var parts []string

	if st.Rate == "" {
		parts = append(parts, mutedStyle.Render(st.RatePair+" —"))
	} else if st.RateStale {
		parts = append(parts, warnStyle.Render(st.RatePair+" "+st.Rate+" (stale)"))
	} else {
		parts = append(parts, okStyle.Render(st.RatePair+" "+st.Rate))
	}

	if st.Pending {
		parts = append(parts, warnStyle.Render("sync pending"))
	} else {
		parts = append(parts, mutedStyle.Render("saved"))
	}

	if st.User != "" {
		parts = append(parts, okStyle.Render("● "+st.User))
	} else {
		parts = append(parts, mutedStyle.Render("○ logged out"))
	}

	if st.UpdateTo != "" {
		parts = append(parts, warnStyle.Render("update "+st.UpdateTo+" available"))
	}

	if st.Notice != "" {
		parts = append(parts, dangerStyle.Render(st.Notice))
	}

	return strings.Join(parts, mutedStyle.Render("  │  "))
}
