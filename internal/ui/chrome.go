package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderHeader() string {
	styles := m.appearance.Theme().Styles()

	parts := []string{styles.Logo.Render("Shelf")}
	switch m.currentView {
	case ViewDetail:
		parts = append(parts, styles.MutedText.Render("Product"))
	case ViewDiagnostics:
		parts = append(parts, styles.MutedText.Render("Diagnostics"))
	default:
		parts = append(parts,
			styles.Text.Render(fmt.Sprintf("Page %d of %d", max(m.data.CurrentPage, 1), max(m.data.TotalPages, 1))),
			styles.MutedText.Render("Sort: ")+styles.AccentText.Render(m.query.Sort.Label()),
			styles.MutedText.Render("Category: ")+styles.AccentText.Render(categoryLabel(m.query.Category)),
		)
		if m.query.Search != "" {
			parts = append(parts, styles.MutedText.Render("Search: ")+styles.AccentText.Render(fmt.Sprintf("%q", m.query.Search)))
		}
	}
	if m.data.Loading {
		parts = append(parts, styles.WarningText.Render("loading"))
	}

	mode := "Light"
	if m.darkMode.Enabled() {
		mode = "Dark"
	}
	left := strings.Join(parts, "  ")
	right := styles.FaintText.Render(mode)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(max(m.width, 1)).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter() string {
	styles := m.appearance.Theme().Styles()
	if m.searching {
		return m.search.View()
	}
	if m.data.Error != "" && len(m.data.Items) > 0 {
		return styles.Footer.Width(max(m.width, 1)).Render(styles.DangerText.Render(m.data.Error))
	}

	hints := make([]string, 0, 8)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, styles.WarningText.Render(h.Key)+" "+h.Desc)
	}
	return styles.Footer.Width(max(m.width, 1)).Render(strings.Join(hints, "  "))
}

func categoryLabel(c string) string {
	if c == "" {
		return "all"
	}
	return c
}
