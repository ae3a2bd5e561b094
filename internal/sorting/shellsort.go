// Package sorting implements Shellsort and Quicksort instrumented to count the
// work they do. Both sort in place and are generic over integer element types.
package sorting

import (
	"golang.org/x/exp/constraints"
)

// ShellsortResult holds the operation counts of one Shellsort call.
type ShellsortResult struct {
	Comparisons uint64 `json:"comparisons" yaml:"comparisons" toml:"comparisons"`
	Moves       uint64 `json:"moves" yaml:"moves" toml:"moves"`
}

// Shellsort sorts a in place using gapped insertion sort and returns the
// number of element comparisons and element moves it performed.
//
// gaps is read in ascending order and applied from its last element to its
// first. Every test of a[j-gap] against the element being inserted counts as
// one comparison, every shift counts as one move, and writing the element to
// its final slot counts as one more move even when it did not change position.
//
// The output is fully sorted only when gaps contains 1 as the last gap
// applied. Gaps that are >= len(a) do nothing.
func Shellsort[T constraints.Integer](a []T, gaps []int) ShellsortResult {
	var result ShellsortResult

	for g := len(gaps) - 1; g >= 0; g-- {
		gap := gaps[g]
		if gap <= 0 {
			continue
		}
		for i := gap; i < len(a); i++ {
			temp := a[i]
			j := i
			for j >= gap {
				result.Comparisons++
				if a[j-gap] <= temp {
					break
				}
				result.Moves++
				a[j] = a[j-gap]
				j -= gap
			}
			result.Moves++
			a[j] = temp
		}
	}

	return result
}
