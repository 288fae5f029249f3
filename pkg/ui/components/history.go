package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HistoryRow is one recorded calculation prepared for display.
type HistoryRow struct {
	When    string
	Tab     string
	Result  string
	Funding bool
}

// HistoryPanel renders the recent calculation history, newest first.
type HistoryPanel struct {
	max int
}

// NewHistoryPanel creates a history panel showing at most max rows.
func NewHistoryPanel(max int) *HistoryPanel {
	return &HistoryPanel{max: max}
}

// View renders the panel.
func (h *HistoryPanel) View(p Palette, rows []HistoryRow) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("HISTORY"))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No calculations yet"))
		sb.WriteString("\n")
		return sb.String()
	}

	shown := rows
	if len(shown) > h.max {
		shown = shown[:h.max]
	}
	for _, r := range shown {
		kind := "arb"
		if r.Funding {
			kind = "fund"
		}
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  %-4s %-10s ", r.When, kind, r.Tab)))
		sb.WriteString(signedValue(p, r.Result))
		sb.WriteString("\n")
	}
	return sb.String()
}
