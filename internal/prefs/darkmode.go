package prefs

import (
	"log/slog"
	"strconv"

	"github.com/five82/shelf/internal/observable"
)

// DarkModeKey is the storage key of the dark mode flag.
const DarkModeKey = "dark_mode"

// DarkMode is the persisted dark mode preference. Without storage it still
// works, but only for the lifetime of the process.
type DarkMode struct {
	value   *observable.Value[bool]
	storage Storage
	apply   func(bool)
	logger  *slog.Logger
}

// NewDarkMode seeds the flag from storage (false when absent). apply is the
// presentation side effect run by Init, Toggle and Set; nil skips it.
func NewDarkMode(storage Storage, apply func(bool), logger *slog.Logger) *DarkMode {
	if logger == nil {
		logger = slog.Default()
	}
	d := &DarkMode{storage: storage, apply: apply, logger: logger}
	d.value = observable.New(d.stored())
	return d
}

// Init re-reads the stored flag and applies it.
func (d *DarkMode) Init() {
	if d.storage == nil {
		return
	}
	stored := d.stored()
	d.runApply(stored)
	d.value.Set(stored)
}

// Toggle flips the flag, persists it and applies it.
func (d *DarkMode) Toggle() {
	d.Set(!d.value.Get())
}

// Set overwrites the flag, persists it and applies it.
func (d *DarkMode) Set(enabled bool) {
	d.persist(enabled)
	d.runApply(enabled)
	d.value.Set(enabled)
}

// Enabled returns the current flag.
func (d *DarkMode) Enabled() bool {
	return d.value.Get()
}

// Subscribe registers fn for the current and every future value.
func (d *DarkMode) Subscribe(fn func(bool)) (unsubscribe func()) {
	return d.value.Subscribe(fn)
}

func (d *DarkMode) stored() bool {
	if d.storage == nil {
		return false
	}
	raw, ok := d.storage.Get(DarkModeKey)
	return ok && raw == "true"
}

func (d *DarkMode) persist(enabled bool) {
	if d.storage == nil {
		return
	}
	if err := d.storage.Set(DarkModeKey, strconv.FormatBool(enabled)); err != nil {
		d.logger.Warn("persist dark mode", "err", err)
	}
}

func (d *DarkMode) runApply(enabled bool) {
	if d.apply != nil {
		d.apply(enabled)
	}
}
