// Package shuffle produces the seeded permutations of 0..length that every
// benchmark round sorts.
package shuffle

import (
	"math"
	"math/rand"

	"github.com/hyp3rd/ewrap"

	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// Permutation is an arrangement of 0..length-1 together with the generator
// that rearranges it. Each Shuffle starts from the previous arrangement, so a
// given seed yields the same series of arrangements on every run.
//
// A Permutation is not safe for concurrent use.
type Permutation struct {
	values []int
	rng    *rand.Rand
}

// New returns the identity arrangement of length elements with a generator
// seeded from seed. A negative length is treated as zero.
func New(length int, seed uint64) *Permutation {
	length = max(length, 0)

	values := make([]int, length)
	for i := range values {
		values[i] = i
	}

	return &Permutation{
		values: values,
		rng:    rand.New(rand.NewSource(int64(seed))),
	}
}

// Len returns the number of elements.
func (p *Permutation) Len() int {
	return len(p.values)
}

// Values returns the current arrangement. The slice belongs to p and is
// overwritten by the next Shuffle; callers copy it before sorting.
func (p *Permutation) Values() []int {
	return p.values
}

// Shuffle visits every index i in order and, with the given probability, swaps
// it with an index drawn uniformly from [i-maxDistance, i+maxDistance] clamped
// to the array. maxDistance <= 0 draws from the whole array.
//
// probability must lie in [0, 1]; anything else, NaN included, returns
// sentinel.ErrInvalidProbability and leaves the arrangement untouched.
func (p *Permutation) Shuffle(maxDistance int, probability float64) error {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return ewrap.Wrapf(sentinel.ErrInvalidProbability, "got %v", probability)
	}

	n := len(p.values)
	for i := range n {
		if probability < 1 && p.rng.Float64() >= probability {
			continue
		}

		lo, hi := 0, n-1
		if maxDistance > 0 {
			lo = max(i-maxDistance, 0)
			hi = min(i+maxDistance, n-1)
		}

		j := lo + p.rng.Intn(hi-lo+1)
		p.values[i], p.values[j] = p.values[j], p.values[i]
	}

	return nil
}
