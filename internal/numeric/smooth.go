package numeric

// Each sieve byte holds four candidates, two bits apiece. The low bit of a
// pair marks the candidate composite, the high bit marks it as having a prime
// factor larger than n.
const (
	compositeBit     byte = 1
	nonSmoothBit     byte = 2
	compositeOrRough      = compositeBit | nonSmoothBit
)

type smoothSieve []byte

func newSmoothSieve(max int) smoothSieve {
	return make(smoothSieve, (max>>2)+1)
}

func (s smoothSieve) mark(i int, bits byte) {
	s[i>>2] |= bits << ((i & 3) * 2)
}

func (s smoothSieve) has(i int, bits byte) bool {
	return s[i>>2]&(bits<<((i&3)*2)) != 0
}

// NSmooth returns, in ascending order, every positive integer <= max whose
// prime factors are all <= n. The result always starts with 1 when max >= 1.
//
// It runs a sieve of Eratosthenes that tracks smoothness alongside primality:
// a prime p <= n only marks its multiples composite, while a prime p > n marks
// itself and all of its multiples as non-smooth.
func NSmooth(n, max int) []int {
	if max < 1 {
		return []int{}
	}

	sieve := newSmoothSieve(max)
	for i := 2; i <= max; i++ {
		if sieve.has(i, compositeBit) {
			continue
		}
		if i <= n {
			for j := i * i; j <= max; j += i {
				sieve.mark(j, compositeBit)
			}
			continue
		}
		sieve.mark(i, nonSmoothBit)
		for j := i * 2; j <= max; j += i {
			sieve.mark(j, compositeOrRough)
		}
	}

	smooths := make([]int, 0)
	for i := 1; i <= max; i++ {
		if !sieve.has(i, nonSmoothBit) {
			smooths = append(smooths, i)
		}
	}
	return smooths
}
