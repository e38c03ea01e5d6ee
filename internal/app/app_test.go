package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/config"
)

func TestLoadConfig_OptionsOverrideFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.EnvAPIURL, config.EnvListen, config.EnvRedisURL, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = 9\nlisten = \"127.0.0.1:1\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PageSize != 9 {
		t.Fatalf("PageSize = %d, want 9 from file", cfg.PageSize)
	}

	cfg, err = loadConfig(Options{ConfigPath: path, PageSize: 3, Listen: ":9999", APIURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PageSize != 3 || cfg.Listen != ":9999" || cfg.APIURL != "http://localhost:1" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_WrapsErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = \"many\""), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loadConfig(Options{ConfigPath: path}); err == nil {
		t.Fatalf("loadConfig returned nil error for a malformed file")
	}
}

func TestOpenLog_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "shelf.log")

	file, err := openLog(path)
	if err != nil {
		t.Fatalf("openLog: %v", err)
	}
	defer file.Close()

	logger := newLogger(file, 0)
	logger.Info("hello", "k", "v")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("log file is empty")
	}
}

func TestOpenCache_DefaultsToMemory(t *testing.T) {
	c, closeFn, err := openCache(context.Background(), config.Default(), quietLogger())
	if err != nil {
		t.Fatalf("openCache: %v", err)
	}
	defer closeFn()
	if _, ok := c.(*cache.Memory); !ok {
		t.Fatalf("cache = %T, want *cache.Memory", c)
	}
}

func TestOpenCache_BadRedisURL(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.RedisURL = "not a url"
	if _, _, err := openCache(context.Background(), cfg, quietLogger()); err == nil {
		t.Fatalf("openCache returned nil error for a bad redis url")
	}
}

func TestOpenPrefs_UsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	storage := openPrefs(path, quietLogger())
	if storage == nil {
		t.Fatalf("openPrefs returned nil storage")
	}
	if err := storage.Set("dark_mode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := openPrefs(path, quietLogger()).Get("dark_mode"); !ok || v != "true" {
		t.Fatalf("reopened value = %q/%v, want true", v, ok)
	}
}

func TestNewClient_LogsBaseURL(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()
	cfg.APIURL = "http://shop.example.com/api/"

	client, err := newClient(cfg, newLogger(&logs, 0))
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if !strings.Contains(logs.String(), "base_url="+client.BaseURL()) {
		t.Fatalf("logs = %q, want base_url=%s", logs.String(), client.BaseURL())
	}
}
