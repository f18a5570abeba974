package lamport

import (
	"cmp"

	"logicalclocks/internal/clock"
)

// Clock is a thread-safe Lamport clock over any ordered timestamp type.
type Clock[T cmp.Ordered] struct {
	state     *clock.Register[T]
	increment func(T) T
}

var _ clock.LogicalClock[int64] = (*Clock[int64])(nil)

// New creates a clock starting at initial. increment must return a value
// strictly greater than its argument. onNewTime may be nil.
func New[T cmp.Ordered](initial T, increment func(T) T, onNewTime clock.Hook[T]) *Clock[T] {
	return &Clock[T]{
		state:     clock.NewRegister(initial, onNewTime),
		increment: increment,
	}
}

// LastTime returns the current timestamp.
func (c *Clock[T]) LastTime() T {
	return c.state.Load()
}

// Tick commits and returns the successor of the current timestamp.
func (c *Clock[T]) Tick() (T, error) {
	return c.state.Update(func(last T) (T, bool) {
		return c.increment(last), true
	})
}

// Tock moves the clock to external if it is strictly greater than the
// current timestamp. Equal or older timestamps leave the clock unchanged.
func (c *Clock[T]) Tock(external T) (T, error) {
	return c.state.Update(func(last T) (T, bool) {
		if external > last {
			return external, true
		}
		return last, false
	})
}
