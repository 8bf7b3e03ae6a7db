// Package debounce delays propagation of a rapidly changing value until it
// has been stable for a configured interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the most recently submitted value once no new value has
// arrived for the configured delay. Every Update restarts the window
// (trailing debounce). Emitted values are always values that were actually
// submitted at some point, and at most one emission happens per stable
// window.
type Debouncer[T any] struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	emit    func(T)
	pending T
	waiting bool
}

// New creates a debouncer that calls emit after delay has elapsed without a
// newer Update. emit runs on a timer goroutine; callers serialize their own
// state.
func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		emit:  emit,
	}
}

// Update submits a new value and restarts the delay window.
func (d *Debouncer[T]) Update(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = value
	d.waiting = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire()
	})
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if !d.waiting {
		d.mu.Unlock()
		return
	}
	d.waiting = false
	value := d.pending
	d.mu.Unlock()
	d.emit(value)
}

// Flush emits any pending value immediately, cancelling its timer. Used for
// explicit submit actions that should not wait out the window.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.waiting {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.waiting = false
	value := d.pending
	d.mu.Unlock()
	d.emit(value)
}

// Cancel drops any pending window without emitting. Safe to call on
// teardown or when nothing is pending.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.waiting = false
}
