// Package polymul multiplies dense polynomials over a ring.
//
// Two algorithms are provided: a direct O(pq) schoolbook convolution and a
// divide-and-conquer Karatsuba multiplier in O(n^1.585) that falls back to
// schoolbook once operands shrink to a configurable base-case threshold.
// The schoolbook result is the oracle every other multiplier is checked
// against.
package polymul

import (
	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/ring"
)

// Schoolbook returns the convolution of x and y: a slice of len(x)+len(y)-1
// coefficients with result[k] = Σ_{i+j=k} x[i]·y[j].
//
// It panics if either operand is empty.
func Schoolbook[E any](r ring.Ring[E], x, y []E) []E {
	if len(x) == 0 || len(y) == 0 {
		panic("polymul: schoolbook on empty operand")
	}
	out := make([]E, len(x)+len(y)-1)
	schoolbookInto(r, out, x, y)
	return out
}

// schoolbookInto overwrites out[:len(x)+len(y)-1] with x·y.
func schoolbookInto[E any](r ring.Ring[E], out, x, y []E) {
	out = out[:len(x)+len(y)-1]
	zero := r.Zero()
	for i := range out {
		out[i] = zero
	}
	for i, a := range x {
		row := out[i : i+len(y)]
		for j, b := range y {
			row[j] = r.Add(row[j], r.Mul(a, b))
		}
	}
}

// MultiplySchoolbook returns a·b computed by direct convolution.
func MultiplySchoolbook[E any](a, b poly.Polynomial[E]) poly.Polynomial[E] {
	return poly.Adopt(a.Ring(), Schoolbook(a.Ring(), a.View(), b.View()))
}
