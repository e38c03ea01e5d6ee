// Package prefs handles Shelf user preferences persistence.
// Preferences are stored in ~/.config/shelf/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage is durable key/value storage for preference strings.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

const defaultPrefsPath = "~/.config/shelf/prefs.toml"

// FileStorage keeps preferences as string values in a TOML file. Reads are
// served from memory; every Set rewrites the file.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

var _ Storage = (*FileStorage)(nil)

// OpenFile loads the preferences file at path (empty for the default). A
// missing, unreadable or malformed file yields empty storage; only a path
// that cannot be resolved is an error.
func OpenFile(path string) (*FileStorage, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	fs := &FileStorage{path: resolved, values: map[string]string{}}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return fs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fs, nil // Graceful degradation
	}
	var values map[string]string
	if err := toml.Unmarshal(bytes, &values); err != nil {
		return fs, nil // Graceful degradation
	}
	for k, v := range values {
		fs.values[k] = v
	}
	return fs, nil
}

// Path returns the resolved file location.
func (fs *FileStorage) Path() string {
	return fs.path
}

// Get returns the stored value for key.
func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	v, ok := fs.values[key]
	return v, ok
}

// Set stores value under key and writes the file, creating directories as
// needed.
func (fs *FileStorage) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.values[key] = value

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	bytes, err := toml.Marshal(fs.values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(fs.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
