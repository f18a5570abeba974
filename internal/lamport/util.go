package lamport

import "logicalclocks/internal/clock"

// NewInt creates a Lamport clock over int that counts up by one.
func NewInt(initial int, onNewTime clock.Hook[int]) *Clock[int] {
	return New(initial, func(t int) int { return t + 1 }, onNewTime)
}

// NewInt64 creates a Lamport clock over int64 that counts up by one.
func NewInt64(initial int64, onNewTime clock.Hook[int64]) *Clock[int64] {
	return New(initial, func(t int64) int64 { return t + 1 }, onNewTime)
}

// NewUint64 creates a Lamport clock over uint64 that counts up by one.
func NewUint64(initial uint64, onNewTime clock.Hook[uint64]) *Clock[uint64] {
	return New(initial, func(t uint64) uint64 { return t + 1 }, onNewTime)
}
