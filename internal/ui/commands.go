package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/pages"
	"github.com/five82/shelf/internal/state"
)

// stateChangedMsg asks the model to re-read the coordinator.
type stateChangedMsg struct{}

// searchMsg carries a debounced search term.
type searchMsg string

type productMsg struct {
	id   int
	page pages.ProductPage
	err  error
}

type logMsg struct {
	entries []logtail.Entry
	err     error
}

func initializeCmd(ctx context.Context, coord *state.Coordinator) tea.Cmd {
	return func() tea.Msg {
		coord.Initialize(ctx)
		return stateChangedMsg{}
	}
}

func reloadCmd(ctx context.Context, coord *state.Coordinator) tea.Cmd {
	return func() tea.Msg {
		page := max(coord.CurrentPage.Get(), 1)
		coord.LoadItems(ctx, page)
		coord.LoadCategories(ctx)
		return stateChangedMsg{}
	}
}

func pageCmd(ctx context.Context, coord *state.Coordinator, forward bool) tea.Cmd {
	return func() tea.Msg {
		var moved bool
		if forward {
			moved = coord.NextPage(ctx)
		} else {
			moved = coord.PrevPage(ctx)
		}
		if !moved {
			return nil
		}
		return stateChangedMsg{}
	}
}

func fetchProductCmd(ctx context.Context, src pages.Source, id int) tea.Cmd {
	return func() tea.Msg {
		page, err := pages.Product(ctx, src, id)
		return productMsg{id: id, page: page, err: err}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logMsg{err: err}
		}
		entries := make([]logtail.Entry, 0, len(lines))
		for _, line := range lines {
			entries = append(entries, logtail.Parse(line))
		}
		return logMsg{entries: entries}
	}
}
