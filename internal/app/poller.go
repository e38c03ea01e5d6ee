package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

const defaultRefreshInterval = 5 * time.Minute

// StartPoller launches a background goroutine that refreshes the catalog
// snapshot at a fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.CatalogStore, client catalog.Fetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, client, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.CatalogStore, client catalog.Fetcher, logger *slog.Logger) {
	items, err := client.FetchAllItems(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("catalog refresh failed", "step", "products", "err", err)
		return
	}
	categories, err := client.FetchCategories(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("catalog refresh failed", "step", "categories", "err", err)
		return
	}
	store.Update(items, categories, nil)
	logger.Debug("catalog refreshed", "items", len(items), "categories", len(categories))
}
