package hybrid

import (
	"cmp"
	"fmt"
)

// Timestamp is a (physical, logical) pair ordered by physical time first and
// the logical counter second. Unlike vector timestamps, two hybrid
// timestamps only compare equal when both components are identical.
type Timestamp[P, L cmp.Ordered] struct {
	Physical P
	Logical  L
}

// Compare returns -1, 0 or 1.
func (ts Timestamp[P, L]) Compare(other Timestamp[P, L]) int {
	if c := cmp.Compare(ts.Physical, other.Physical); c != 0 {
		return c
	}
	return cmp.Compare(ts.Logical, other.Logical)
}

// Less reports whether ts is ordered before other.
func (ts Timestamp[P, L]) Less(other Timestamp[P, L]) bool {
	return ts.Compare(other) < 0
}

func (ts Timestamp[P, L]) String() string {
	return fmt.Sprintf("(%v,%v)", ts.Physical, ts.Logical)
}
