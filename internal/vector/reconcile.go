package vector

import "cmp"

// ReconcileResult partitions a set of timestamps by causal dominance.
type ReconcileResult struct {
	// Winners holds the indices of the maximal timestamps: those not
	// dominated by any other. Identical timestamps are reported once, by
	// their first index. More than one winner means concurrent versions.
	Winners []int

	// Stale holds the indices of timestamps dominated by at least one other.
	Stale []int
}

// Reconcile computes the maximal set of the given timestamps.
func Reconcile[K comparable, V cmp.Ordered](versions []Timestamp[K, V]) ReconcileResult {
	result := ReconcileResult{
		Winners: []int{},
		Stale:   []int{},
	}

	for i, v1 := range versions {
		isDominated := false
		for j, v2 := range versions {
			if i != j && v1.Before(v2) {
				isDominated = true
				break
			}
		}

		if isDominated {
			result.Stale = append(result.Stale, i)
			continue
		}

		isDuplicate := false
		for _, w := range result.Winners {
			if v1.Equal(versions[w]) {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			result.Winners = append(result.Winners, i)
		}
	}

	return result
}

// HasConflict returns true if there are concurrent winners.
func (r *ReconcileResult) HasConflict() bool {
	return len(r.Winners) > 1
}

// IsResolved returns true if there's exactly one winner.
func (r *ReconcileResult) IsResolved() bool {
	return len(r.Winners) == 1
}
