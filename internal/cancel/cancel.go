// Package cancel hands out one cancellation token per logical fetch
// cycle. Beginning a new cycle cancels the previous one, so results that
// arrive late can be recognised as stale and dropped.
package cancel

import (
	"context"
	"sync"
)

// Cycle is one logical fetch attempt and its abort signal. Every request
// issued within the cycle must use Context().
type Cycle struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
}

// Context returns the context shared by all requests of the cycle.
func (c *Cycle) Context() context.Context { return c.ctx }

// Generation is a monotonically increasing cycle number, for logging.
func (c *Cycle) Generation() uint64 { return c.generation }

// Cancelled reports whether the cycle was superseded or stopped.
func (c *Cycle) Cancelled() bool { return c.ctx.Err() != nil }

// Coordinator owns the cycle lineage of one operation family. Families
// that must not cancel each other use separate coordinators.
type Coordinator struct {
	mu         sync.Mutex
	parent     context.Context
	current    *Cycle
	generation uint64
	stopped    bool
}

// New creates a Coordinator whose cycles derive from parent.
func New(parent context.Context) *Coordinator {
	if parent == nil {
		parent = context.Background()
	}
	return &Coordinator{parent: parent}
}

// Begin returns a fresh, live cycle and cancels the one returned before
// it. After Stop, Begin returns a cycle that is already cancelled.
func (c *Coordinator) Begin() *Cycle {
	return c.BeginWithin(c.parent)
}

// BeginWithin is Begin for a cycle that must also end when ctx does.
// A nil ctx uses the coordinator's parent.
func (c *Coordinator) BeginWithin(ctx context.Context) *Cycle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx == nil {
		ctx = c.parent
	}
	if c.current != nil {
		c.current.cancel()
	}

	c.generation++
	ctx, cancel := context.WithCancel(ctx)
	cycle := &Cycle{ctx: ctx, cancel: cancel, generation: c.generation}
	if c.stopped {
		cancel()
	}
	c.current = cycle
	return cycle
}

// Current reports whether cycle is the live cycle of this coordinator.
// Results of a non-current cycle must not be applied.
func (c *Coordinator) Current(cycle *Cycle) bool {
	if cycle == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && c.current == cycle && cycle.ctx.Err() == nil
}

// Latest reports whether cycle is the most recently begun one, whether
// or not it has since been cancelled. A cancelled latest cycle was
// stopped or abandoned by its caller rather than replaced.
func (c *Coordinator) Latest(cycle *Cycle) bool {
	if cycle == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == cycle
}

// Stop cancels the active cycle unconditionally. Used on teardown.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.current != nil {
		c.current.cancel()
	}
}
