package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding

	// Views
	Diagnostics    key.Binding
	ToggleDarkMode key.Binding

	// Listing
	NextPage      key.Binding
	PrevPage      key.Binding
	Search        key.Binding
	CycleCategory key.Binding
	CycleSort     key.Binding
	Reload        key.Binding
	Open          key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to products"),
		),

		Diagnostics: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Diagnostics log"),
		),
		ToggleDarkMode: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Toggle dark mode"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "Previous page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search titles"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cycle category"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Product details"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Search, k.CycleSort, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Escape},
		{k.NextPage, k.PrevPage, k.Search, k.CycleCategory, k.CycleSort, k.Reload},
		{k.Diagnostics, k.ToggleDarkMode, k.Help, k.Quit},
	}
}
