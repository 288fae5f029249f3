package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ArbResult holds the pre-computed spread strings for display.
type ArbResult struct {
	OpenSpread  string
	CloseSpread string
}

// ArbForm renders the arbitrage calculator form.
type ArbForm struct{}

// NewArbForm creates an arbitrage form renderer.
func NewArbForm() *ArbForm {
	return &ArbForm{}
}

// View renders the price fields, the spread results and, when toggled,
// the weighted-average panel.
func (f *ArbForm) View(p Palette, fields []Field, res ArbResult, showAvg bool, avgFields []Field, average string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Muted)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ARBITRAGE"))
	sb.WriteString("\n\n")
	sb.WriteString(renderFields(p, fields))

	sb.WriteString("\n")
	sb.WriteString("  ")
	sb.WriteString(mutedStyle.Render("Open spread "))
	sb.WriteString(signedValue(p, res.OpenSpread))
	sb.WriteString(mutedStyle.Render("   Close spread "))
	sb.WriteString(signedValue(p, res.CloseSpread))
	sb.WriteString("\n")

	if showAvg {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("AVERAGE ENTRY"))
		sb.WriteString("\n\n")
		sb.WriteString(renderFields(p, avgFields))
		sb.WriteString("\n  ")
		sb.WriteString(mutedStyle.Render("Average price "))
		sb.WriteString(signedValue(p, average))
		sb.WriteString("\n")
	}

	return sb.String()
}
