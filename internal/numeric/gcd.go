// Package numeric holds the small number-theory helpers the gap sequences are
// built from.
package numeric

// GCD returns the greatest common divisor of two non-negative integers using
// the iterative Euclidean algorithm. GCD(a, 0) is a and GCD(0, b) is b.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Coprime reports whether n shares no factor greater than 1 with any of values.
func Coprime(n int, values []int) bool {
	for _, v := range values {
		if GCD(n, v) != 1 {
			return false
		}
	}
	return true
}
