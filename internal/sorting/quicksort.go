package sorting

import (
	"golang.org/x/exp/constraints"
)

// QuicksortResult holds the operation counts of one Quicksort call.
type QuicksortResult struct {
	Comparisons uint64 `json:"comparisons" yaml:"comparisons" toml:"comparisons"`
	Swaps       uint64 `json:"swaps" yaml:"swaps" toml:"swaps"`
	MaxDepth    uint64 `json:"max_depth" yaml:"max_depth" toml:"max_depth"`
}

// Quicksort sorts a in place with recursive three-way partitioning around the
// middle element and returns its comparison, swap and depth counts.
//
// Each < or > test against the pivot is one comparison and each swap is one
// swap, including swaps of an element with itself. Elements equal to the pivot
// are gathered in the middle and never recursed into. Depth counts every call
// including the ones that find nothing to do, so the root call is depth 1 and
// an empty or single-element slice reports {0, 0, 1}.
func Quicksort[T constraints.Integer](a []T) QuicksortResult {
	var result QuicksortResult
	quicksort(a, 0, len(a)-1, 1, &result)
	return result
}

func quicksort[T constraints.Integer](a []T, low, high int, depth uint64, result *QuicksortResult) {
	if depth > result.MaxDepth {
		result.MaxDepth = depth
	}
	if low >= high {
		return
	}

	lt, gt := partition(a, low, high, result)
	quicksort(a, low, lt-1, depth+1, result)
	quicksort(a, gt+1, high, depth+1, result)
}

// partition rearranges a[low..high] into < pivot, == pivot and > pivot runs and
// returns the bounds of the middle run.
func partition[T constraints.Integer](a []T, low, high int, result *QuicksortResult) (lt, gt int) {
	pivot := a[low+(high-low)/2]
	lt, gt = low, high

	for i := low; i <= gt; {
		result.Comparisons++
		if a[i] < pivot {
			a[lt], a[i] = a[i], a[lt]
			result.Swaps++
			lt++
			i++
			continue
		}

		result.Comparisons++
		if a[i] > pivot {
			a[i], a[gt] = a[gt], a[i]
			result.Swaps++
			gt--
			continue
		}

		i++
	}

	return lt, gt
}
