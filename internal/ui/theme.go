package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Selected  lipgloss.Style
	ColHeader lipgloss.Style
	Panel     lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		InfoText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		ColHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(1, 2),
	}
}

// DarkTheme is the Dracula palette.
func DarkTheme() Theme {
	return Theme{
		Name: "Dark",

		Background: "#191A21",
		Surface:    "#282A36",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",
	}
}

// LightTheme uses the Tailwind slate scale on a light background.
func LightTheme() Theme {
	return Theme{
		Name: "Light",

		Background: "#f8fafc", // slate-50
		Surface:    "#e2e8f0", // slate-200

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc",

		Border:      "#cbd5e1", // slate-300
		BorderFocus: "#0284c7",

		Text:    "#0f172a", // slate-900
		Muted:   "#475569", // slate-600
		Faint:   "#94a3b8", // slate-400
		Accent:  "#0369a1", // sky-700
		Success: "#15803d", // green-700
		Warning: "#b45309", // amber-700
		Danger:  "#b91c1c", // red-700
		Info:    "#0e7490", // cyan-700
	}
}

// ThemeFor returns the theme for the dark mode flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// Appearance holds the active theme. Its Apply method is the dark mode
// preference's side effect, so toggling the preference restyles the UI on
// the next render.
type Appearance struct {
	mu    sync.RWMutex
	theme Theme
}

// NewAppearance starts with the light theme.
func NewAppearance() *Appearance {
	return &Appearance{theme: LightTheme()}
}

// Apply switches to the dark or light theme.
func (a *Appearance) Apply(dark bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.theme = ThemeFor(dark)
}

// Theme returns the active theme.
func (a *Appearance) Theme() Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}
