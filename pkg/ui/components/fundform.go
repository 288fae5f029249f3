package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FundProjection holds the pre-computed funding carry figures for display.
type FundProjection struct {
	NetRate      string
	PeriodProfit string
	Daily        string
	Monthly      string
	Annual       string
	Margin       string
	APY          string
}

// FundForm renders the funding-rate calculator form.
type FundForm struct{}

// NewFundForm creates a funding form renderer.
func NewFundForm() *FundForm {
	return &FundForm{}
}

// View renders the position fields, the projection table and the realized
// period log.
func (f *FundForm) View(p Palette, fields []Field, proj FundProjection, logLines []string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(p.Muted).Width(10)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("FUNDING RATE"))
	sb.WriteString("\n\n")
	sb.WriteString(renderFields(p, fields))

	sb.WriteString("\n")
	rows := []struct{ label, value string }{
		{"Net rate", proj.NetRate},
		{"Period", proj.PeriodProfit},
		{"Daily", proj.Daily},
		{"Monthly", proj.Monthly},
		{"Annual", proj.Annual},
		{"Margin", proj.Margin},
		{"APY", proj.APY},
	}
	for _, r := range rows {
		sb.WriteString("  ")
		sb.WriteString(labelStyle.Render(r.label))
		sb.WriteString(" ")
		sb.WriteString(signedValue(p, r.value))
		sb.WriteString("\n")
	}

	if len(logLines) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("PERIOD LOG"))
		sb.WriteString("\n")
		for _, line := range logLines {
			sb.WriteString(mutedStyle.Render("  " + line))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
