package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spreadpad/spreadpad/pkg/ui/components"
)

type tutorialStep struct {
	title string
	body  string
}

var tutorialSteps = []tutorialStep{
	{
		title: "Tabs",
		body: "Each tab is an independent calculator. ctrl+n opens an arbitrage\n" +
			"tab, ctrl+f a funding-rate tab (marked ƒ). Switch with ctrl+←/→,\n" +
			"rename with ctrl+r, close with ctrl+w. Closing the last tab always\n" +
			"leaves one fresh arbitrage tab.",
	},
	{
		title: "Arbitrage",
		body: "Enter the opening and closing prices on both exchanges. The open\n" +
			"and close spreads update as you type. Inputs are free text: partial\n" +
			"or invalid numbers simply show a 0.00 spread.",
	},
	{
		title: "Average entry",
		body: "ctrl+a shows the weighted-average panel. Add purchase rows with\n" +
			"ctrl+t, drop the last one with ctrl+y, and fill in the total coin\n" +
			"count to get your average entry price.",
	},
	{
		title: "Funding rate",
		body: "Funding tabs project the carry of a short/long position: net rate,\n" +
			"per-period profit, daily, monthly and annual figures, margin and\n" +
			"APY. ctrl+g logs the current period into the tab's log.",
	},
	{
		title: "History",
		body: "enter records the current result. The last 50 results are kept and\n" +
			"survive restarts; ctrl+e clears them.",
	},
	{
		title: "Sync",
		body: "Everything you change is saved on this device immediately. When you\n" +
			"are signed in, tab layout and theme also sync to your account after\n" +
			"a short quiet period; the status bar shows a pending sync.",
	},
	{
		title: "Appearance",
		body: "ctrl+d toggles dark mode, ctrl+v cycles the accent theme, ctrl+b\n" +
			"switches to a compact layout and ctrl+p pins the header.",
	},
}

func (m Model) renderTutorial(p components.Palette) string {
	step := tutorialSteps[m.tutorialStep]

	titleSty := lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	mutedSty := lipgloss.NewStyle().Foreground(p.Muted)

	var sb strings.Builder
	sb.WriteString(titleSty.Render(step.title))
	sb.WriteString("\n\n")
	sb.WriteString(step.body)
	sb.WriteString("\n\n")
	sb.WriteString(mutedSty.Render(fmt.Sprintf("step %d/%d  •  enter: next  •  esc: close",
		m.tutorialStep+1, len(tutorialSteps))))

	return boxStyle(p).Width(70).Render(sb.String())
}
