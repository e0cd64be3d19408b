// Package period - validation of raw period-identifier columns.
//
// Design principles:
//   - Deterministic, side-effect free: input slices are never mutated.
//   - Exact, not heuristic: the column must equal a permutation of 1..N.
//   - The first violation in row order is reported; errors are *IndexError.
package period

import (
	"math"
	"sort"
)

// Index is a validated period column: a permutation of 1..N in the order it
// was encountered in its table.
type Index struct {
	ids []ID
}

// ValidateColumn checks that values is exactly a permutation of 1..len(values)
// and returns it as an Index. table and field are only used to name the
// offending column in errors.
//
// Stages:
//  1. Every entry must be a finite integer (NonInteger otherwise).
//  2. Every entry must lie in [1, len(values)] (OutOfRange otherwise).
//  3. No entry may repeat (Duplicate otherwise).
//
// With n entries inside [1, n] and no repeats every id is present, so
// stage 3 also rules out gaps. Gap is reported only when an out-of-range
// entry would otherwise hide which id is missing (see firstGap).
//
// An empty column is valid and yields an empty Index.
//
// Complexity: O(n) time, O(n) extra space.
func ValidateColumn(table, field string, values []float64) (Index, error) {
	var (
		n    = len(values)
		ids  = make([]ID, n)
		seen = make([]bool, n+1)
		i    int
		v    float64
	)
	for i, v = range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return Index{}, &IndexError{Table: table, Field: field, Reason: NonInteger, Value: v}
		}
		if v < 1 || v > float64(n) {
			// Prefer naming the hole ([3,5,4,1] → "missing 2") over the
			// out-of-range entry that displaced it.
			if gap, ok := firstGap(values); ok {
				return Index{}, &IndexError{Table: table, Field: field, Reason: Gap, Value: float64(gap)}
			}

			return Index{}, &IndexError{Table: table, Field: field, Reason: OutOfRange, Value: v}
		}
		if seen[int(v)] {
			return Index{}, &IndexError{Table: table, Field: field, Reason: Duplicate, Value: v}
		}
		seen[int(v)] = true
		ids[i] = ID(v)
	}

	return Index{ids: ids}, nil
}

// firstGap returns the smallest id of 1..len(values) absent from values.
func firstGap(values []float64) (ID, bool) {
	present := make(map[float64]struct{}, len(values))
	for _, v := range values {
		present[v] = struct{}{}
	}
	for id := 1; id <= len(values); id++ {
		if _, ok := present[float64(id)]; !ok {
			return ID(id), true
		}
	}

	return 0, false
}

// Len returns N, the number of periods.
func (ix Index) Len() int { return len(ix.ids) }

// IDs returns the ids in table order. The returned slice is a copy.
func (ix Index) IDs() []ID { return append([]ID(nil), ix.ids...) }

// Sorted returns the ids in ascending order, i.e. 1..N.
func (ix Index) Sorted() []ID {
	out := ix.IDs()
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })

	return out
}

// Contains reports whether id belongs to the horizon.
func (ix Index) Contains(id ID) bool { return id >= 1 && int(id) <= len(ix.ids) }

// First returns period 1. It returns 0 for an empty index.
func (ix Index) First() ID {
	if len(ix.ids) == 0 {
		return 0
	}

	return 1
}

// Last returns period N. It returns 0 for an empty index.
func (ix Index) Last() ID { return ID(len(ix.ids)) }

// Diff returns the ids present only in a and the ids present only in b,
// both ascending. Two valid indexes differ exactly when their lengths differ,
// but the symmetric difference is what callers report.
//
// Complexity: O(|a| + |b|).
func Diff(a, b Index) (onlyA, onlyB []ID) {
	var (
		na = a.Len()
		nb = b.Len()
		id ID
	)
	for id = ID(nb + 1); int(id) <= na; id++ {
		onlyA = append(onlyA, id)
	}
	for id = ID(na + 1); int(id) <= nb; id++ {
		onlyB = append(onlyB, id)
	}

	return onlyA, onlyB
}
