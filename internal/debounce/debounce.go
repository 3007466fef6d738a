// Package debounce delays propagation of rapidly changing values until
// they have been stable for a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/julianstephens/salesops/internal/clock"
)

// Debouncer runs a function once calls to Debounce stop arriving for
// the configured duration. Each call resets the timer.
type Debouncer struct {
	mu       sync.Mutex
	clock    clock.Clock
	timer    *clock.Timer
	duration time.Duration
}

// New creates a Debouncer. A nil clock uses the real one.
func New(clk clock.Clock, duration time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.Real()
	}
	return &Debouncer{clock: clk, duration: duration}
}

// Debounce schedules fn to run after the quiet period, replacing any
// call still pending.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}
