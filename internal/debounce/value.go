package debounce

import (
	"sync"
	"time"

	"github.com/julianstephens/salesops/internal/clock"
)

// Value keeps a raw value alongside its debounced projection. Readers
// that need to react to every keystroke use Raw; readers that trigger
// expensive work use Settled or the OnSettle callback.
type Value[T comparable] struct {
	mu       sync.Mutex
	debounce *Debouncer
	raw      T
	settled  T
	onSettle func(T)
}

// NewValue creates a Value starting at initial. onSettle, if non-nil,
// is called at most once per quiet period and only when the settled
// value actually changes.
func NewValue[T comparable](clk clock.Clock, delay time.Duration, initial T, onSettle func(T)) *Value[T] {
	return &Value[T]{
		debounce: New(clk, delay),
		raw:      initial,
		settled:  initial,
		onSettle: onSettle,
	}
}

// Set records a new raw value and restarts the quiet period.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.raw = x
	v.mu.Unlock()
	v.debounce.Debounce(v.settle)
}

// Raw returns the most recent value passed to Set.
func (v *Value[T]) Raw() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.raw
}

// Settled returns the last value that survived a full quiet period.
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Flush settles the raw value now instead of waiting.
func (v *Value[T]) Flush() {
	v.debounce.Immediate(v.settle)
}

// Reset replaces the raw and settled values together and drops any
// pending settle. onSettle is not called.
func (v *Value[T]) Reset(x T) {
	v.debounce.Cancel()
	v.mu.Lock()
	v.raw = x
	v.settled = x
	v.mu.Unlock()
}

// Stop drops a pending settle. The settled value is left unchanged.
func (v *Value[T]) Stop() {
	v.debounce.Cancel()
}

func (v *Value[T]) settle() {
	v.mu.Lock()
	if v.raw == v.settled {
		v.mu.Unlock()
		return
	}
	v.settled = v.raw
	value := v.settled
	callback := v.onSettle
	v.mu.Unlock()

	if callback != nil {
		callback(value)
	}
}
