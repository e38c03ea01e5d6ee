// Package debounce delays a call until its inputs stop changing.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers only the last value passed to Call, once delay has
// elapsed without a newer Call.
type Debouncer[T any] struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(T)
	timer *time.Timer
}

// New returns a Debouncer that invokes fn after delay of quiet.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call schedules fn(value), replacing any pending call.
func (d *Debouncer[T]) Call(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fn(value) })
}

// Stop drops the pending call, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
