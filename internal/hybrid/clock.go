package hybrid

import (
	"cmp"

	"logicalclocks/internal/clock"
)

// Clock is a thread-safe hybrid logical clock.
type Clock[P, L cmp.Ordered] struct {
	state        *clock.Register[Timestamp[P, L]]
	zeroLogical  L
	physicalTime func() P
	increment    func(L) L
}

var _ clock.LogicalClock[Timestamp[int64, uint32]] = (*Clock[int64, uint32])(nil)

// New creates a hybrid clock starting at initial.
//
// physicalTime is read once per Tick and should be cheap and non-blocking.
// zeroLogical is the logical value used whenever the physical time advances,
// and increment must return a value strictly greater than its argument.
// onNewTime may be nil.
func New[P, L cmp.Ordered](
	initial Timestamp[P, L],
	zeroLogical L,
	physicalTime func() P,
	increment func(L) L,
	onNewTime clock.Hook[Timestamp[P, L]],
) *Clock[P, L] {
	return &Clock[P, L]{
		state:        clock.NewRegister(initial, onNewTime),
		zeroLogical:  zeroLogical,
		physicalTime: physicalTime,
		increment:    increment,
	}
}

// LastTime returns the current timestamp.
func (c *Clock[P, L]) LastTime() Timestamp[P, L] {
	return c.state.Load()
}

// Tick uses the current physical time if it is ahead of the clock, and
// otherwise keeps the clock's physical component and increments the logical
// one.
func (c *Clock[P, L]) Tick() (Timestamp[P, L], error) {
	return c.state.Update(func(last Timestamp[P, L]) (Timestamp[P, L], bool) {
		if now := c.physicalTime(); now > last.Physical {
			return Timestamp[P, L]{Physical: now, Logical: c.zeroLogical}, true
		}
		return Timestamp[P, L]{Physical: last.Physical, Logical: c.increment(last.Logical)}, true
	})
}

// Tock moves the clock to external if it is ordered after the current
// timestamp.
func (c *Clock[P, L]) Tock(external Timestamp[P, L]) (Timestamp[P, L], error) {
	return c.state.Update(func(last Timestamp[P, L]) (Timestamp[P, L], bool) {
		if last.Less(external) {
			return external, true
		}
		return last, false
	})
}
