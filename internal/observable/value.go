// Package observable provides a small publish/subscribe value holder.
//
// A Value holds the current state of one field. Subscribers are invoked
// synchronously, in subscription order, once on Subscribe and then after
// every Set or Update. Callbacks run outside the internal lock, so they may
// read the value or unsubscribe themselves.
package observable

import "sync"

// Value is a concurrency-safe observable container for T.
type Value[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New returns a Value seeded with initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Update replaces the value with fn(current) and notifies subscribers.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	v.value = fn(v.value)
	value := v.value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Subscribe registers fn, calls it with the current value, and returns a
// function that removes the subscription. Calling it twice is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	value := v.value
	v.mu.Unlock()

	fn(value)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

func (v *Value[T]) snapshot() []subscriber[T] {
	if len(v.subs) == 0 {
		return nil
	}
	dup := make([]subscriber[T], len(v.subs))
	copy(dup, v.subs)
	return dup
}
