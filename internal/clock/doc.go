// Package clock defines the contract shared by all logical clocks and the
// guarded state cell they are built on. A logical clock hands out
// monotonically ordered timestamps for local events (Tick) and folds in
// timestamps observed from other nodes (Tock) without relying on
// synchronized wall-clock time.
package clock
