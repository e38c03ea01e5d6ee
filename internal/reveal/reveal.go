// Package reveal reports when rows of a scrolling view first become
// visible, so expensive per-row work can wait until it is needed.
//
// Elements are row ranges in content coordinates. Each Update compares them
// against the viewport (grown by the root margin). Every element is reported
// once on its first Update and again whenever its visibility flips; once an
// element's visible share reaches the threshold it is reported as visible
// and then forgotten.
package reveal

import "sync"

const defaultThreshold = 0.1

// Options tune an Observer.
type Options struct {
	// Threshold is the visible fraction (0-1] that counts as revealed.
	// Zero means 0.1.
	Threshold float64
	// RootMargin extends the viewport by this many rows on both sides.
	RootMargin int
}

type element struct {
	top, height int
	reported    bool
	visible     bool
}

// Observer tracks elements against a viewport.
type Observer[K comparable] struct {
	mu       sync.Mutex
	opts     Options
	callback func(key K, visible bool)
	elements map[K]*element
}

// New returns an Observer that calls callback on visibility reports.
func New[K comparable](callback func(key K, visible bool), opts Options) *Observer[K] {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = defaultThreshold
	}
	return &Observer[K]{opts: opts, callback: callback, elements: map[K]*element{}}
}

// Observe starts tracking key at rows [top, top+height). Observing a key
// again updates its position.
func (o *Observer[K]) Observe(key K, top, height int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if el, ok := o.elements[key]; ok {
		el.top, el.height = top, height
		return
	}
	o.elements[key] = &element{top: top, height: height}
}

// Unobserve stops tracking key.
func (o *Observer[K]) Unobserve(key K) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.elements, key)
}

// Disconnect stops tracking everything.
func (o *Observer[K]) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	clear(o.elements)
}

// Len returns the number of elements still being tracked.
func (o *Observer[K]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.elements)
}

// Update evaluates every element against rows [top, top+height).
func (o *Observer[K]) Update(top, height int) {
	type report struct {
		key     K
		visible bool
	}
	var reports []report

	o.mu.Lock()
	viewTop := top - o.opts.RootMargin
	viewBottom := top + height + o.opts.RootMargin
	for key, el := range o.elements {
		visible := ratio(el.top, el.height, viewTop, viewBottom) >= o.opts.Threshold
		if !el.reported || el.visible != visible {
			reports = append(reports, report{key: key, visible: visible})
		}
		el.reported = true
		el.visible = visible
		if visible {
			delete(o.elements, key)
		}
	}
	o.mu.Unlock()

	for _, r := range reports {
		o.callback(r.key, r.visible)
	}
}

func ratio(top, height, viewTop, viewBottom int) float64 {
	if height <= 0 {
		return 0
	}
	start := max(top, viewTop)
	end := min(top+height, viewBottom)
	if end <= start {
		return 0
	}
	return float64(end-start) / float64(height)
}
