package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Shelf reads at startup.
type Config struct {
	APIURL            string
	PageSize          int
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	LogFile           string
	LogLevel          slog.Level
	PrefsPath         string
	Listen            string
	RefreshInterval   time.Duration
	Cache             CacheConfig
}

// CacheConfig selects the shared product cache.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

const (
	defaultConfigPath = "~/.config/shelf/config.toml"
	defaultAPIURL     = "https://fakestoreapi.com"
	defaultPageSize   = 6
	defaultLogFile    = "~/.local/state/shelf/shelf.log"
	defaultPrefsPath  = "~/.config/shelf/prefs.toml"
	defaultListen     = "127.0.0.1:8080"
	defaultCacheTTL   = 10 * time.Minute
)

// Environment variables that override the config file.
const (
	EnvAPIURL   = "SHELF_API_URL"
	EnvListen   = "SHELF_LISTEN"
	EnvRedisURL = "SHELF_REDIS_URL"
	EnvLogLevel = "SHELF_LOG_LEVEL"
)

type rawConfig struct {
	APIURL            string  `toml:"api_url"`
	PageSize          int     `toml:"page_size"`
	RequestTimeout    string  `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	LogFile           string  `toml:"log_file"`
	LogLevel          string  `toml:"log_level"`
	PrefsPath         string  `toml:"prefs_path"`
	Listen            string  `toml:"listen"`
	RefreshInterval   string  `toml:"refresh_interval"`
	Cache             struct {
		RedisURL string `toml:"redis_url"`
		TTL      string `toml:"ttl"`
	} `toml:"cache"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:    defaultAPIURL,
		PageSize:  defaultPageSize,
		LogFile:   mustExpand(defaultLogFile),
		LogLevel:  slog.LevelInfo,
		PrefsPath: mustExpand(defaultPrefsPath),
		Listen:    defaultListen,
		Cache:     CacheConfig{TTL: defaultCacheTTL},
	}
}

// Load locates and parses the config, falling back to defaults when it is
// missing, then applies environment overrides (including a .env file in the
// working directory).
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	bytes, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if bytes != nil {
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(raw); err != nil {
			return Config{}, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return bytes, nil
}

func (c *Config) merge(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if raw.PageSize < 0 {
		return fmt.Errorf("page_size must be positive, got %d", raw.PageSize)
	}
	if raw.PageSize > 0 {
		c.PageSize = raw.PageSize
	}
	if raw.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	c.RequestsPerSecond = raw.RequestsPerSecond

	var err error
	if c.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, 0); err != nil {
		return err
	}
	if c.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, 0); err != nil {
		return err
	}
	if c.Cache.TTL, err = parseDuration("cache.ttl", raw.Cache.TTL, defaultCacheTTL); err != nil {
		return err
	}
	c.Cache.RedisURL = strings.TrimSpace(raw.Cache.RedisURL)

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if c.LogLevel, err = parseLevel(v); err != nil {
			return err
		}
	}
	if v := strings.TrimSpace(raw.PrefsPath); v != "" {
		c.PrefsPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Listen); v != "" {
		c.Listen = v
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvListen)); v != "" {
		c.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		c.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = level
	}
	return nil
}

// loadDotEnv reads ./.env without overriding variables already set.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %q", name, trimmed)
	}
	return d, nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log_level: %w", err)
	}
	return level, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
