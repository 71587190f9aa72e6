package poly

import "github.com/agbru/polymul/internal/ring"

// Add returns x + y coefficient-wise. The result has max(len x, len y)
// entries; a missing entry on either side counts as zero.
func Add[E any](r ring.Ring[E], x, y []E) []E {
	return combine(r, x, y, r.Add)
}

// Sub returns x - y coefficient-wise with the same length rule as Add.
func Sub[E any](r ring.Ring[E], x, y []E) []E {
	return combine(r, x, y, r.Sub)
}

func combine[E any](r ring.Ring[E], x, y []E, op func(a, b E) E) []E {
	n := max(len(x), len(y))
	out := make([]E, n)
	zero := r.Zero()
	for i := range out {
		a, b := zero, zero
		if i < len(x) {
			a = x[i]
		}
		if i < len(y) {
			b = y[i]
		}
		out[i] = op(a, b)
	}
	return out
}

// MulMonomial returns p · scalar · X^shift: shift zero coefficients followed
// by each p[i]·scalar. The input is not modified.
func MulMonomial[E any](r ring.Ring[E], p []E, shift int, scalar E) []E {
	if shift < 0 {
		panic("poly: negative monomial shift")
	}
	out := make([]E, len(p)+shift)
	zero := r.Zero()
	for i := 0; i < shift; i++ {
		out[i] = zero
	}
	for i, c := range p {
		out[shift+i] = r.Mul(c, scalar)
	}
	return out
}

// Shift returns p · X^k.
func Shift[E any](r ring.Ring[E], p []E, k int) []E {
	if k < 0 {
		panic("poly: negative monomial shift")
	}
	out := make([]E, len(p)+k)
	zero := r.Zero()
	for i := 0; i < k; i++ {
		out[i] = zero
	}
	copy(out[k:], p)
	return out
}

// Scale returns p · s.
func Scale[E any](r ring.Ring[E], p []E, s E) []E {
	return MulMonomial(r, p, 0, s)
}

// Equal compares x and y up to trailing zero coefficients: the shorter
// sequence is treated as zero-padded, and every index must hold equal
// coefficients.
//
// The rule is only meant for equality. Anything that hashes or orders
// polynomials must canonicalise with Trim first.
func Equal[E any](r ring.Ring[E], x, y []E) bool {
	n := max(len(x), len(y))
	zero := r.Zero()
	for i := 0; i < n; i++ {
		a, b := zero, zero
		if i < len(x) {
			a = x[i]
		}
		if i < len(y) {
			b = y[i]
		}
		if !r.Equal(a, b) {
			return false
		}
	}
	return true
}

// LeadingDegree returns the index of the highest non-zero coefficient, or -1
// when every coefficient is zero.
func LeadingDegree[E any](r ring.Ring[E], p []E) int {
	for i := len(p) - 1; i >= 0; i-- {
		if !ring.IsZero(r, p[i]) {
			return i
		}
	}
	return -1
}

// Zeros returns n copies of the ring's zero.
func Zeros[E any](r ring.Ring[E], n int) []E {
	out := make([]E, n)
	zero := r.Zero()
	for i := range out {
		out[i] = zero
	}
	return out
}

// NextPowerOfTwo returns the smallest power of two ≥ n (1 for n ≤ 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
