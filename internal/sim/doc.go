// Package sim runs an in-process message exchange between simulated nodes
// and checks that every clock kind orders each send before its receive.
// Nodes exchange encoded timestamps over channels; each node sends and
// receives from separate goroutines, so its clocks see concurrent callers.
package sim
