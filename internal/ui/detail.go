package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/pages"
)

type detailState struct {
	id      int
	loading bool
	page    *pages.ProductPage
	err     string
}

func (m Model) openDetail(p catalog.Product) (tea.Model, tea.Cmd) {
	m.currentView = ViewDetail
	m.detail = detailState{id: p.ID, loading: true}
	if m.pages == nil {
		m.detail = detailState{id: p.ID, page: &pages.ProductPage{Product: p}}
		m.refreshDetailViewport()
		return m, nil
	}
	m.refreshDetailViewport()
	return m, fetchProductCmd(m.ctx, m.pages, p.ID)
}

func (m *Model) handleProduct(msg productMsg) {
	// Ignore answers for a product the user already navigated away from.
	if msg.id != m.detail.id {
		return
	}
	m.detail.loading = false
	if msg.err != nil {
		m.logger.Warn("load product page", "id", msg.id, "err", msg.err)
		m.detail.err = msg.err.Error()
		m.detail.page = nil
	} else {
		page := msg.page
		m.detail.page = &page
		m.detail.err = ""
	}
	m.refreshDetailViewport()
}

func (m *Model) refreshDetailViewport() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.detailContent())
	m.detailViewport.GotoTop()
}

func (m Model) detailContent() string {
	styles := m.appearance.Theme().Styles()
	switch {
	case m.detail.loading:
		return styles.MutedText.Render("Loading product...")
	case m.detail.err != "":
		return styles.DangerText.Render("Could not load product: "+m.detail.err) + "\n" +
			styles.MutedText.Render("Press esc to return to the list.")
	case m.detail.page == nil:
		return ""
	}

	page := m.detail.page
	p := page.Product
	width := max(m.contentWidth()-4, 20)
	label := styles.MutedText.Width(12)

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(p.Title))
	b.WriteString("\n\n")
	b.WriteString(label.Render("Price") + styles.SuccessText.Render(p.PriceLabel()) + "\n")
	b.WriteString(label.Render("Category") + styles.Text.Render(p.Category) + "\n")
	b.WriteString(label.Render("Rating") + styles.WarningText.Render(ratingLabel(p.Rating)) + "\n")
	if p.Image != "" {
		b.WriteString(label.Render("Image") + styles.InfoText.Render(p.Image) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(styles.Text.Render(p.Description)))
	if page.Meta.Title != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("title: " + page.Meta.Title))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("keywords: " + page.Meta.Keywords))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	return m.detailViewport.View()
}
