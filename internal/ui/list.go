package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// LayoutCompactWidth is the width below which the image column is hidden.
const LayoutCompactWidth = 100

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleItems()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(items) - 1

	case key.Matches(msg, m.keys.NextPage):
		if m.coord == nil || m.data.Loading {
			return m, nil
		}
		m.selected, m.scrollTop = 0, 0
		return m, pageCmd(m.ctx, m.coord, true)
	case key.Matches(msg, m.keys.PrevPage):
		if m.coord == nil || m.data.Loading {
			return m, nil
		}
		m.selected, m.scrollTop = 0, 0
		return m, pageCmd(m.ctx, m.coord, false)
	case key.Matches(msg, m.keys.Reload):
		if m.coord == nil {
			return m, nil
		}
		return m, reloadCmd(m.ctx, m.coord)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query.Search)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.CycleCategory):
		m.query.Category = nextCategory(m.data.Categories, m.query.Category)
		m.selected, m.scrollTop = 0, 0
	case key.Matches(msg, m.keys.CycleSort):
		m.query.Sort = m.query.Sort.Next()

	case key.Matches(msg, m.keys.Open):
		if m.selected < 0 || m.selected >= len(items) {
			return m, nil
		}
		return m.openDetail(items[m.selected])
	}

	m.syncList()
	return m, nil
}

// nextCategory cycles "" -> first -> ... -> last -> "".
func nextCategory(categories []catalog.Category, current string) string {
	if current == "" {
		if len(categories) == 0 {
			return ""
		}
		return categories[0]
	}
	for i, c := range categories {
		if c == current && i+1 < len(categories) {
			return categories[i+1]
		}
	}
	return ""
}

func (m Model) visibleItems() []catalog.Product {
	return m.query.Apply(m.data.Items)
}

// bodyRows is the height between the header and the footer.
func (m Model) bodyRows() int {
	return max(m.height-2, 1)
}

func (m Model) listRows() int {
	return max(m.bodyRows()-1, 1)
}

func (m Model) contentWidth() int {
	return max(m.width, 20)
}

// syncList clamps the selection, scrolls it into view and reveals image
// references for rows that entered the viewport.
func (m *Model) syncList() {
	items := m.visibleItems()
	if m.selected >= len(items) {
		m.selected = len(items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	rows := m.listRows()
	if m.selected < m.scrollTop {
		m.scrollTop = m.selected
	}
	if m.selected >= m.scrollTop+rows {
		m.scrollTop = m.selected - rows + 1
	}
	if m.scrollTop > max(len(items)-rows, 0) {
		m.scrollTop = max(len(items)-rows, 0)
	}

	m.observer.Disconnect()
	for i, item := range items {
		if !m.revealed[item.ID] {
			m.observer.Observe(item.ID, i, 1)
		}
	}
	m.observer.Update(m.scrollTop, rows)
}

func (m Model) renderList() string {
	styles := m.appearance.Theme().Styles()
	rows := m.listRows()
	items := m.visibleItems()

	var lines []string
	switch {
	case m.data.Phase == state.PhaseErrored && len(m.data.Items) == 0:
		lines = append(lines,
			styles.DangerText.Render(m.data.Error),
			styles.MutedText.Render("Press r to retry."))
	case len(m.data.Items) == 0 && (m.data.Loading || m.data.Phase == state.PhaseIdle):
		lines = append(lines, styles.MutedText.Render("Loading products..."))
	case len(items) == 0:
		lines = append(lines, styles.MutedText.Render("No products match the current filters."))
	default:
		lines = append(lines, styles.ColHeader.Render(m.formatRow("#", "Title", "Category", "Price", "Rating", "Image")))
		end := min(m.scrollTop+rows, len(items))
		for i := m.scrollTop; i < end; i++ {
			line := m.productRow(items[i])
			if i == m.selected {
				line = styles.Selected.Render(line)
			} else {
				line = styles.Text.Render(line)
			}
			lines = append(lines, line)
		}
	}

	for len(lines) < m.bodyRows() {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) productRow(p catalog.Product) string {
	image := "…"
	if m.revealed[p.ID] {
		image = p.Image
	}
	return m.formatRow(
		fmt.Sprintf("%d", p.ID),
		p.Title,
		p.Category,
		p.PriceLabel(),
		ratingLabel(p.Rating),
		image,
	)
}

func (m Model) formatRow(id, title, category, price, rating, image string) string {
	const (
		idW       = 4
		categoryW = 18
		priceW    = 10
		ratingW   = 14
		imageW    = 32
	)
	width := m.contentWidth()
	showImage := width >= LayoutCompactWidth
	fixed := idW + categoryW + priceW + ratingW + 4
	if showImage {
		fixed += imageW + 1
	}
	titleW := max(width-fixed, 10)

	row := fmt.Sprintf("%-*s %-*s %-*s %*s %-*s",
		idW, truncate(id, idW),
		titleW, truncate(title, titleW),
		categoryW, truncate(category, categoryW),
		priceW, truncate(price, priceW),
		ratingW, truncate(rating, ratingW),
	)
	if showImage {
		row += " " + truncateMiddle(image, imageW)
	}
	return row
}

func ratingLabel(r catalog.Rating) string {
	return fmt.Sprintf("★ %.1f (%d)", r.Rate, r.Count)
}
