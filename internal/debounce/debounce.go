// Package debounce delays delivery of a changing value until it has been
// stable for a quiet interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the most recently pushed value once no new value has
// arrived for the configured delay. Superseded values are never delivered.
//
// deliver runs on a timer goroutine. It may call Push but must not call
// Cancel or Stop.
type Debouncer[T comparable] struct {
	delay   time.Duration
	deliver func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	last    T
	hasLast bool
	stopped bool

	// held for the duration of a delivery so Cancel and Stop can wait it out
	fireMu sync.Mutex
}

// New creates a Debouncer. A zero or negative delay still delivers
// asynchronously, never inside Push.
func New[T comparable](delay time.Duration, deliver func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, deliver: deliver}
}

// Push records v and restarts the quiet interval. Pushing the value that was
// pushed last is a no-op.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.hasLast && d.last == v {
		return
	}

	d.last = v
	d.hasLast = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a delivery is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops any scheduled delivery and forgets the last pushed value, so
// pushing it again schedules a fresh delivery. When Cancel returns no
// delivery is running or will run for values pushed before the call.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	d.reset()
	d.mu.Unlock()

	d.waitDelivery()
}

// Stop cancels pending work and disables the Debouncer permanently.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.reset()
	d.mu.Unlock()

	d.waitDelivery()
}

// waitDelivery blocks until a delivery that already passed its generation
// check has returned.
func (d *Debouncer[T]) waitDelivery() {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()
}

func (d *Debouncer[T]) reset() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.last = zero
	d.hasLast = false
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.timer = nil
	d.mu.Unlock()

	d.deliver(v)
}
