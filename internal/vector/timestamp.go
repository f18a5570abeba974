package vector

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"logicalclocks/internal/clock"
)

// ErrEmptyTimestamp is returned when a timestamp would have no components.
var ErrEmptyTimestamp = errors.New("vector timestamp must have at least one component")

// Timestamp maps node IDs to per-node times. It is immutable and never empty
// when built with NewTimestamp.
//
// Compare is a partial order in which concurrent timestamps compare as equal.
// Use Equal to test for identical components.
type Timestamp[K comparable, V cmp.Ordered] struct {
	components map[K]V
}

// NewTimestamp creates a timestamp from a copy of components.
func NewTimestamp[K comparable, V cmp.Ordered](components map[K]V) (Timestamp[K, V], error) {
	if len(components) == 0 {
		return Timestamp[K, V]{}, clock.NewArgumentError(ErrEmptyTimestamp, "")
	}
	return Timestamp[K, V]{components: maps.Clone(components)}, nil
}

// MustTimestamp is like NewTimestamp but panics on an empty map.
func MustTimestamp[K comparable, V cmp.Ordered](components map[K]V) Timestamp[K, V] {
	ts, err := NewTimestamp(components)
	if err != nil {
		panic(err)
	}
	return ts
}

// Get returns the time of the given node and whether the node is present.
func (ts Timestamp[K, V]) Get(nodeID K) (V, bool) {
	v, ok := ts.components[nodeID]
	return v, ok
}

// Len returns the number of nodes in the timestamp.
func (ts Timestamp[K, V]) Len() int {
	return len(ts.components)
}

// Components returns a copy of the node-to-time mapping.
func (ts Timestamp[K, V]) Components() map[K]V {
	return maps.Clone(ts.components)
}

// NodeIDs returns the node IDs in the deterministic order used by String.
func (ts Timestamp[K, V]) NodeIDs() []K {
	ids := make([]K, 0, len(ts.components))
	for id := range ts.components {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return fmt.Sprint(ids[i]) < fmt.Sprint(ids[j])
	})
	return ids
}

// Equal reports whether both timestamps have exactly the same components.
func (ts Timestamp[K, V]) Equal(other Timestamp[K, V]) bool {
	return maps.Equal(ts.components, other.components)
}

// Compare returns -1 if ts happened before other, 1 if it happened after,
// and 0 if the timestamps are identical or concurrent.
//
// The first node whose times differ sets the direction. As soon as another
// node differs in the opposite direction the timestamps are concurrent and
// 0 is returned.
func (ts Timestamp[K, V]) Compare(other Timestamp[K, V]) int {
	acc := 0
	step := func(c int) bool {
		if c == 0 {
			return true
		}
		if c == -acc {
			return false
		}
		acc = c
		return true
	}

	for id, v := range ts.components {
		ov, ok := other.components[id]
		c := 1
		if ok {
			c = cmp.Compare(v, ov)
		}
		if !step(c) {
			return 0
		}
	}
	for id := range other.components {
		if _, ok := ts.components[id]; ok {
			continue
		}
		if !step(-1) {
			return 0
		}
	}
	return acc
}

// Before reports whether ts happened before other.
func (ts Timestamp[K, V]) Before(other Timestamp[K, V]) bool {
	return ts.Compare(other) < 0
}

// After reports whether ts happened after other.
func (ts Timestamp[K, V]) After(other Timestamp[K, V]) bool {
	return ts.Compare(other) > 0
}

// Concurrent reports whether neither timestamp dominates the other and they
// are not identical.
func (ts Timestamp[K, V]) Concurrent(other Timestamp[K, V]) bool {
	return ts.Compare(other) == 0 && !ts.Equal(other)
}

// Merge returns the per-node maximum of ts and other. A node missing on one
// side takes the other side's time. The boolean reports whether the result
// differs from ts.
func (ts Timestamp[K, V]) Merge(other Timestamp[K, V]) (Timestamp[K, V], bool) {
	var merged map[K]V
	for id, ov := range other.components {
		v, ok := ts.components[id]
		if ok && ov <= v {
			continue
		}
		if merged == nil {
			merged = maps.Clone(ts.components)
			if merged == nil {
				merged = make(map[K]V, len(other.components))
			}
		}
		merged[id] = ov
	}
	if merged == nil {
		return ts, false
	}
	return Timestamp[K, V]{components: merged}, true
}

// with returns a copy of ts where nodeID is set to v.
func (ts Timestamp[K, V]) with(nodeID K, v V) Timestamp[K, V] {
	components := maps.Clone(ts.components)
	components[nodeID] = v
	return Timestamp[K, V]{components: components}
}

// String returns a string representation of the timestamp.
func (ts Timestamp[K, V]) String() string {
	if len(ts.components) == 0 {
		return "{}"
	}

	parts := make([]string, 0, len(ts.components))
	for _, id := range ts.NodeIDs() {
		parts = append(parts, fmt.Sprintf("%v:%v", id, ts.components[id]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
