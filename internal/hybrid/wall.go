package hybrid

import (
	clocks "github.com/vimeo/go-clocks"
	"logicalclocks/internal/clock"
)

// UnixNano returns a physical time source reading c in nanoseconds since the
// Unix epoch. A nil c reads the system clock.
func UnixNano(c clocks.Clock) func() int64 {
	if c == nil {
		c = clocks.DefaultClock()
	}
	return func() int64 {
		return c.Now().UnixNano()
	}
}

// NewWallClock creates a hybrid clock whose physical component is c's time
// in Unix nanoseconds and whose logical component counts up from zero.
// A nil c reads the system clock.
func NewWallClock(
	initial Timestamp[int64, uint32],
	c clocks.Clock,
	onNewTime clock.Hook[Timestamp[int64, uint32]],
) *Clock[int64, uint32] {
	return New(initial, 0, UnixNano(c), func(l uint32) uint32 { return l + 1 }, onNewTime)
}
