package clock

import (
	"sync"
	"sync/atomic"
)

// LogicalClock is implemented by every clock in this module.
type LogicalClock[T any] interface {
	// LastTime returns the current timestamp of the clock. It never blocks.
	LastTime() T
	// Tick returns a timestamp greater than the current one and makes it the
	// clock's new state.
	Tick() (T, error)
	// Tock updates the clock to reflect an event observed with the given
	// timestamp and returns the resulting state, which may differ from external.
	Tock(external T) (T, error)
}

// Hook is called with every timestamp a clock commits. It runs after the
// commit, before any other caller may update the same clock.
type Hook[T any] func(T) error

// Register owns the lastTime state of a clock.
// Updates are serialized by a mutex; reads go through an atomic snapshot and
// never wait for a running update.
type Register[T any] struct {
	mu        sync.Mutex
	last      atomic.Pointer[T]
	onNewTime Hook[T]
}

// NewRegister creates a register holding initial. onNewTime may be nil.
func NewRegister[T any](initial T, onNewTime Hook[T]) *Register[T] {
	r := &Register[T]{onNewTime: onNewTime}
	r.last.Store(&initial)
	return r
}

// Load returns the last committed value.
func (r *Register[T]) Load() T {
	return *r.last.Load()
}

// Update computes the next value from the last committed one.
// If next reports no change the register is left untouched, the hook is not
// called and the current value is returned. Otherwise the new value is
// committed first and the hook runs afterwards; a hook error is returned as
// is and the commit stands.
func (r *Register[T]) Update(next func(last T) (T, bool)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := *r.last.Load()
	t, changed := next(last)
	if !changed {
		return last, nil
	}
	r.last.Store(&t)

	if r.onNewTime != nil {
		if err := r.onNewTime(t); err != nil {
			return t, err
		}
	}
	return t, nil
}
