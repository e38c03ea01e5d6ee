package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpSectionTitles = []string{"Navigation", "Listing", "General"}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	theme := m.appearance.Theme()
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	groups := m.keys.FullHelp()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)
	for i, group := range groups {
		if i < len(helpSectionTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpSectionTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	modal := styles.Panel.Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
