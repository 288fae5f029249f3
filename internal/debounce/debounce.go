// Package debounce provides a restartable quiet-window timer for coalescing
// bursts of work into a single call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces calls: fn runs once after a quiet window with no new
// Trigger calls. A Trigger during the window restarts it and replaces the
// pending payload, so only the most recent payload is ever delivered.
type Debouncer[T any] struct {
	window time.Duration
	fn     func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	closed  bool
}

// New creates a Debouncer that invokes fn with the latest payload after
// window elapses without further triggers.
func New[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, fn: fn}
}

// Trigger schedules fn with payload, restarting the quiet window.
func (d *Debouncer[T]) Trigger(payload T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.pending = payload
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	payload := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(payload)
}

// Pending reports whether a delivery is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels any pending delivery. The dropped payload is not flushed.
// Subsequent triggers are no-ops.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
