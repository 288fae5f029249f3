package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TabItem is one tab in the bar.
type TabItem struct {
	Name    string
	Funding bool
	Active  bool
}

// TabBar renders the calculator tab strip.
type TabBar struct{}

// NewTabBar creates a tab bar.
func NewTabBar() *TabBar {
	return &TabBar{}
}

// View renders the tab strip. Funding tabs carry a marker so same-named
// tabs of different kinds stay distinguishable.
func (t *TabBar) View(p Palette, items []TabItem) string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Accent).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	parts := make([]string, 0, len(items))
	for _, item := range items {
		label := item.Name
		if item.Funding {
			label = "ƒ " + label
		}
		if item.Active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
