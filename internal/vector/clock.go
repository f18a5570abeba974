package vector

import (
	"cmp"
	"errors"
	"fmt"

	"logicalclocks/internal/clock"
)

// ErrMissingLocalNode is returned when the initial timestamp of a clock does
// not contain the clock's own node.
var ErrMissingLocalNode = errors.New("initial time must contain the local node ID")

// Clock is a thread-safe vector clock owned by a single node.
//
// Its size and the cost of comparing its timestamps grow with the number of
// nodes that have been observed; entries are never removed.
type Clock[K comparable, V cmp.Ordered] struct {
	localNodeID K
	state       *clock.Register[Timestamp[K, V]]
	increment   func(V) V
}

var _ clock.LogicalClock[Timestamp[string, int64]] = (*Clock[string, int64])(nil)

// New creates a vector clock for localNodeID starting at initial.
// increment must return a value strictly greater than its argument.
// onNewTime may be nil.
func New[K comparable, V cmp.Ordered](
	localNodeID K,
	initial Timestamp[K, V],
	increment func(V) V,
	onNewTime clock.Hook[Timestamp[K, V]],
) (*Clock[K, V], error) {
	if initial.Len() == 0 {
		return nil, clock.NewArgumentError(ErrEmptyTimestamp, "")
	}
	if _, ok := initial.Get(localNodeID); !ok {
		return nil, clock.NewArgumentError(ErrMissingLocalNode, fmt.Sprintf("node %v not in %v", localNodeID, initial))
	}
	return &Clock[K, V]{
		localNodeID: localNodeID,
		state:       clock.NewRegister(initial, onNewTime),
		increment:   increment,
	}, nil
}

// NewStringInt64 creates a vector clock with string node IDs and int64
// times that count up by one.
func NewStringInt64(
	localNodeID string,
	initial Timestamp[string, int64],
	onNewTime clock.Hook[Timestamp[string, int64]],
) (*Clock[string, int64], error) {
	return New(localNodeID, initial, func(v int64) int64 { return v + 1 }, onNewTime)
}

// LocalNodeID returns the node whose component Tick advances.
func (c *Clock[K, V]) LocalNodeID() K {
	return c.localNodeID
}

// LastTime returns the current timestamp.
func (c *Clock[K, V]) LastTime() Timestamp[K, V] {
	return c.state.Load()
}

// Tick advances the local node's component and returns the new timestamp.
func (c *Clock[K, V]) Tick() (Timestamp[K, V], error) {
	return c.state.Update(func(last Timestamp[K, V]) (Timestamp[K, V], bool) {
		local, _ := last.Get(c.localNodeID)
		return last.with(c.localNodeID, c.increment(local)), true
	})
}

// Tock merges external into the clock. The clock only changes when external
// carries a newer time for at least one node, including nodes not seen
// before.
func (c *Clock[K, V]) Tock(external Timestamp[K, V]) (Timestamp[K, V], error) {
	return c.state.Update(func(last Timestamp[K, V]) (Timestamp[K, V], bool) {
		return last.Merge(external)
	})
}
