package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/server"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the Shelf application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	APIURL     string
	PageSize   int
	Listen     string
}

const shutdownTimeout = 5 * time.Second

// Run boots the Shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("shelf starting", "mode", "tui", "api", cfg.APIURL, "page_size", cfg.PageSize)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	itemCache, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	appearance := ui.NewAppearance()
	darkMode := prefs.NewDarkMode(openPrefs(cfg.PrefsPath, logger), appearance.Apply, logger)
	darkMode.Init()

	coord := state.NewCoordinator(client, state.CoordinatorOptions{
		Cache:    itemCache,
		PageSize: cfg.PageSize,
		Logger:   logger,
	})

	return ui.Run(ui.Options{
		Context:     ctx,
		Coordinator: coord,
		Pages:       client,
		DarkMode:    darkMode,
		Appearance:  appearance,
		LogPath:     cfg.LogFile,
		Logger:      logger,
	})
}

// Serve runs the HTTP frontend until the context is cancelled.
func Serve(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(io.MultiWriter(os.Stderr, logFile), cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("shelf starting", "mode", "server", "api", cfg.APIURL, "listen", cfg.Listen)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	var store *state.CatalogStore
	if cfg.RefreshInterval > 0 {
		store = &state.CatalogStore{}
		StartPoller(ctx, store, client, cfg.RefreshInterval, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(client, server.Options{
		Logger:   logger,
		Store:    store,
		PageSize: cfg.PageSize,
	})
	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "listen", cfg.Listen)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	return cfg, nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newClient(cfg config.Config, logger *slog.Logger) (*catalog.Client, error) {
	client, err := catalog.NewClient(cfg.APIURL, catalog.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	logger.Info("catalog client ready", "base_url", client.BaseURL())
	return client, nil
}

// openCache returns the shared product cache: Redis when configured,
// process memory otherwise.
func openCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (cache.Cache, func(), error) {
	if cfg.Cache.RedisURL == "" {
		return &cache.Memory{}, func() {}, nil
	}
	r, err := cache.NewRedis(ctx, cache.RedisOptions{
		URL:    cfg.Cache.RedisURL,
		TTL:    cfg.Cache.TTL,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect product cache: %w", err)
	}
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("close product cache", "err", err)
		}
	}, nil
}

// openPrefs returns nil storage when the prefs file is unusable, so the
// dark mode flag still works for this session.
func openPrefs(path string, logger *slog.Logger) prefs.Storage {
	fs, err := prefs.OpenFile(path)
	if err != nil {
		// Graceful degradation
		logger.Warn("preferences unavailable", "path", path, "err", err)
		return nil
	}
	return fs
}
