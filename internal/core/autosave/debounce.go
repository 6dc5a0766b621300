// Package autosave provides the debounced trigger that persists review
// edits after a quiescence interval.
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay is the quiescence interval after the last edit before an
// autosave fires.
const DefaultDelay = 500 * time.Millisecond

// Debouncer is a single-slot cancellable timer: arming replaces any
// pending timer, so at most one autosave is ever pending. It is
// independent of any UI toolkit's timer primitive.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Debouncer with the given delay. Non-positive delays fall
// back to DefaultDelay.
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiescence interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn to run after the delay, cancelling any previously
// scheduled call first. Only the last edit in a burst fires.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call. Safe to call multiple times; a timer
// that has already fired is a no-op.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
