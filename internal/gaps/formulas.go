package gaps

import (
	"math"
	"slices"

	"github.com/mschirtzinger/shellbench/internal/numeric"
)

// ciuraTable is the empirically tuned sequence; it is not extended by formula.
var ciuraTable = [...]int{1, 4, 10, 23, 57, 132, 301, 701, 1750}

// Ratios of the two geometric sequences.
const (
	tokudaRatio = 9.0 / 4.0
	leeRatio    = 2.243609061420001
)

// byIndex collects term(0), term(1), ... while they stay below arrayLen.
// term must be strictly increasing in k.
func byIndex(arrayLen int, term func(k int) int) []int {
	gaps := []int{}
	for k := 0; ; k++ {
		g := term(k)
		if g >= arrayLen {
			return gaps
		}
		gaps = append(gaps, g)
	}
}

// shrinking applies next to arrayLen until the result reaches 1 and returns the
// visited values in ascending order. next must be strictly decreasing and
// yield exactly 1 for some input on the way down.
func shrinking(arrayLen int, next func(g int) int) []int {
	gaps := []int{}
	for g := next(arrayLen); ; g = next(g) {
		if g <= 1 {
			gaps = append(gaps, 1)
			break
		}
		gaps = append(gaps, g)
	}
	slices.Reverse(gaps)
	return gaps
}

func shell1959(arrayLen int) []int {
	gaps := []int{}
	for g := arrayLen >> 1; g > 0; g >>= 1 {
		gaps = append(gaps, g)
	}
	slices.Reverse(gaps)
	return gaps
}

func frankLazarus1960(arrayLen int) []int {
	return shrinking(arrayLen, func(g int) int {
		return (g>>2)<<1 + 1
	})
}

func hibbard1963(arrayLen int) []int {
	return byIndex(arrayLen, func(k int) int {
		return 1<<(k+1) - 1
	})
}

func papernovStasevich1965(arrayLen int) []int {
	return byIndex(arrayLen, func(k int) int {
		if k == 0 {
			return 1
		}
		return 1<<k + 1
	})
}

func pratt1971(arrayLen int) []int {
	return numeric.NSmooth(3, arrayLen-1)
}

func knuth1973(arrayLen int) []int {
	gaps := []int{}
	for g := 1; g < arrayLen; g = 3*g + 1 {
		gaps = append(gaps, g)
	}
	return gaps
}

func sedgewick1982(arrayLen int) []int {
	return byIndex(arrayLen, func(k int) int {
		if k == 0 {
			return 1
		}
		return 1<<(2*k) + 3<<(k-1) + 1
	})
}

// incerpiSedgewick1985 builds h_k as the product of r-1 of the first r terms
// a_0..a_{r-1}, skipping a_t with t = (r^2+r)/2 - k, where
// r = floor(sqrt(2k + sqrt(2k))) and a_q is the smallest integer >= (5/2)^(q+1)
// that is coprime to every earlier a term. k starts at 1, whose empty product
// is the unit gap.
func incerpiSedgewick1985(arrayLen int) []int {
	gaps := []int{}
	a := []int{3}
	power := 2.5
	for k := 1; ; k++ {
		k2 := float64(2 * k)
		r := int(math.Sqrt(k2 + math.Sqrt(k2)))

		for len(a) < r {
			power *= 2.5
			m := int(math.Ceil(power))
			for !numeric.Coprime(m, a) {
				m++
			}
			a = append(a, m)
		}

		skip := (r*r+r)/2 - k
		h := 1
		for q := 0; q < r; q++ {
			if q != skip {
				h *= a[q]
			}
		}
		if h >= arrayLen {
			return gaps
		}
		gaps = append(gaps, h)
	}
}

func sedgewick1986(arrayLen int) []int {
	return byIndex(arrayLen, func(k int) int {
		if k%2 == 0 {
			return 9*(1<<k-1<<(k/2)) + 1
		}
		return 8<<k - 6<<((k+1)/2) + 1
	})
}

func gonnetBaezaYates1991(arrayLen int) []int {
	return shrinking(arrayLen, func(g int) int {
		return (5*g - 1) / 11
	})
}

// geometric yields 1 followed by ceil((r^k - 1)/(r - 1)) for k = 2, 3, ...
func geometric(arrayLen int, ratio float64) []int {
	gaps := []int{}
	power := ratio
	for g := 1; g < arrayLen; {
		gaps = append(gaps, g)
		power *= ratio
		g = int(math.Ceil((power - 1) / (ratio - 1)))
	}
	return gaps
}

func tokuda1992(arrayLen int) []int {
	return geometric(arrayLen, tokudaRatio)
}

func ciura2001() []int {
	return slices.Clone(ciuraTable[:])
}

func lee2021(arrayLen int) []int {
	return geometric(arrayLen, leeRatio)
}
