package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI. Hotkeys use control chords
// so plain characters always reach the focused text input.
type KeyMap struct {
	Quit           key.Binding
	NextField      key.Binding
	PrevField      key.Binding
	NextTab        key.Binding
	PrevTab        key.Binding
	NewArbitrage   key.Binding
	NewFunding     key.Binding
	CloseTab       key.Binding
	RenameTab      key.Binding
	ClearFields    key.Binding
	ToggleAverage  key.Binding
	AddPurchase    key.Binding
	DropPurchase   key.Binding
	Record         key.Binding
	LogPeriod      key.Binding
	ClearHistory   key.Binding
	ToggleDark     key.Binding
	ToggleCompact  key.Binding
	TogglePin      key.Binding
	CycleTheme     key.Binding
	Tutorial       key.Binding
	Logout         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+←", "prev tab"),
		),
		NewArbitrage: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new arbitrage tab"),
		),
		NewFunding: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "new funding tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		RenameTab: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "rename tab"),
		),
		ClearFields: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear fields"),
		),
		ToggleAverage: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "average panel"),
		),
		AddPurchase: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "add purchase"),
		),
		DropPurchase: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "drop purchase"),
		),
		Record: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "record result"),
		),
		LogPeriod: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "log period"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "clear history"),
		),
		ToggleDark: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "dark mode"),
		),
		ToggleCompact: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "compact"),
		),
		TogglePin: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pin"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "theme"),
		),
		Tutorial: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "tutorial"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewArbitrage, k.NewFunding, k.Record, k.Tutorial, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.NextTab, k.PrevTab},
		{k.NewArbitrage, k.NewFunding, k.CloseTab, k.RenameTab},
		{k.Record, k.LogPeriod, k.ClearFields, k.ClearHistory},
		{k.ToggleAverage, k.AddPurchase, k.DropPurchase},
		{k.ToggleDark, k.ToggleCompact, k.TogglePin, k.CycleTheme},
		{k.Tutorial, k.Logout, k.Quit},
	}
}
