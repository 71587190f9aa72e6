// Package poly implements dense univariate polynomials over a ring.
//
// Coefficients are stored lowest degree first: coefficient i multiplies X^i.
// A Polynomial always holds at least one coefficient and never trims zero
// high-degree coefficients on its own. Equality and rendering treat those
// trailing zeros as insignificant, so a polynomial padded to a power-of-two
// length compares equal to its unpadded form.
//
// Polynomials are values: every operation allocates a fresh coefficient
// buffer and no two polynomials share one.
package poly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agbru/polymul/internal/ring"
)

// ErrEmpty is returned when constructing a polynomial from no coefficients.
var ErrEmpty = errors.New("polynomial needs at least one coefficient")

// Polynomial is a dense polynomial over the ring R with element type E.
type Polynomial[E any] struct {
	r      ring.Ring[E]
	coeffs []E
}

// From builds a polynomial from a copy of coeffs.
func From[E any](r ring.Ring[E], coeffs []E) (Polynomial[E], error) {
	if len(coeffs) == 0 {
		return Polynomial[E]{}, ErrEmpty
	}
	c := make([]E, len(coeffs))
	copy(c, coeffs)
	return Polynomial[E]{r: r, coeffs: c}, nil
}

// New builds a polynomial from a literal coefficient list.
func New[E any](r ring.Ring[E], coeffs ...E) (Polynomial[E], error) {
	return From(r, coeffs)
}

// MustNew is like New but panics on an empty coefficient list. It is meant
// for literals in tests and examples.
func MustNew[E any](r ring.Ring[E], coeffs ...E) Polynomial[E] {
	p, err := From(r, coeffs)
	if err != nil {
		panic(err)
	}
	return p
}

// FromInt64s builds a polynomial by mapping integers into r.
func FromInt64s[E any](r ring.Ring[E], vals ...int64) (Polynomial[E], error) {
	return From(r, ring.FromInt64s(r, vals...))
}

// Zero returns the constant polynomial 0.
func Zero[E any](r ring.Ring[E]) Polynomial[E] {
	return Polynomial[E]{r: r, coeffs: []E{r.Zero()}}
}

// One returns the constant polynomial 1.
func One[E any](r ring.Ring[E]) Polynomial[E] {
	return Polynomial[E]{r: r, coeffs: []E{r.One()}}
}

// wrap adopts coeffs without copying. Callers must hand over ownership.
func wrap[E any](r ring.Ring[E], coeffs []E) Polynomial[E] {
	if len(coeffs) == 0 {
		coeffs = []E{r.Zero()}
	}
	return Polynomial[E]{r: r, coeffs: coeffs}
}

// Adopt wraps a freshly computed coefficient slice without copying it. The
// caller must not retain coeffs afterwards.
func Adopt[E any](r ring.Ring[E], coeffs []E) Polynomial[E] {
	return wrap(r, coeffs)
}

// Ring returns the coefficient ring.
func (p Polynomial[E]) Ring() ring.Ring[E] { return p.r }

// Len returns the number of stored coefficients.
func (p Polynomial[E]) Len() int { return len(p.coeffs) }

// Degree returns Len()-1. Zero high coefficients are counted.
func (p Polynomial[E]) Degree() int { return len(p.coeffs) - 1 }

// LeadingDegree returns the degree ignoring zero high coefficients, -1 for
// the zero polynomial.
func (p Polynomial[E]) LeadingDegree() int { return LeadingDegree(p.r, p.coeffs) }

// IsZero reports whether every coefficient is zero.
func (p Polynomial[E]) IsZero() bool { return p.LeadingDegree() < 0 }

// Coeff returns the coefficient of X^i, zero beyond the stored length.
func (p Polynomial[E]) Coeff(i int) E {
	if i < 0 || i >= len(p.coeffs) {
		return p.r.Zero()
	}
	return p.coeffs[i]
}

// Coeffs returns a copy of the coefficients.
func (p Polynomial[E]) Coeffs() []E {
	c := make([]E, len(p.coeffs))
	copy(c, p.coeffs)
	return c
}

// View exposes the backing coefficients for read-only use by the
// multipliers. Callers must not modify the returned slice.
func (p Polynomial[E]) View() []E { return p.coeffs }

// Add returns p + q.
func (p Polynomial[E]) Add(q Polynomial[E]) Polynomial[E] {
	return wrap(p.r, Add(p.r, p.coeffs, q.coeffs))
}

// Sub returns p - q.
func (p Polynomial[E]) Sub(q Polynomial[E]) Polynomial[E] {
	return wrap(p.r, Sub(p.r, p.coeffs, q.coeffs))
}

// Shift returns p · X^k.
func (p Polynomial[E]) Shift(k int) Polynomial[E] {
	return wrap(p.r, Shift(p.r, p.coeffs, k))
}

// MulMonomial returns p · s · X^k.
func (p Polynomial[E]) MulMonomial(k int, s E) Polynomial[E] {
	return wrap(p.r, MulMonomial(p.r, p.coeffs, k, s))
}

// Scale returns p · s.
func (p Polynomial[E]) Scale(s E) Polynomial[E] {
	return wrap(p.r, Scale(p.r, p.coeffs, s))
}

// Pad returns a copy of p extended with zero coefficients to length n.
// Polynomials already at least n long are copied unchanged.
func (p Polynomial[E]) Pad(n int) Polynomial[E] {
	if n <= len(p.coeffs) {
		return wrap(p.r, p.Coeffs())
	}
	c := Zeros(p.r, n)
	copy(c, p.coeffs)
	return wrap(p.r, c)
}

// Trim returns a copy of p without zero high-degree coefficients. The zero
// polynomial trims to the single coefficient 0.
func (p Polynomial[E]) Trim() Polynomial[E] {
	d := p.LeadingDegree()
	if d < 0 {
		return Zero(p.r)
	}
	c := make([]E, d+1)
	copy(c, p.coeffs)
	return wrap(p.r, c)
}

// Evaluate returns p(x) by Horner's rule.
func (p Polynomial[E]) Evaluate(x E) E {
	acc := p.r.Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc = p.r.Add(p.r.Mul(acc, x), p.coeffs[i])
	}
	return acc
}

// Equal reports whether p and q agree up to trailing zero coefficients.
func (p Polynomial[E]) Equal(q Polynomial[E]) bool {
	return Equal(p.r, p.coeffs, q.coeffs)
}

// String renders p as a sum of monomials in X, highest degree first.
func (p Polynomial[E]) String() string { return p.Format("x") }

// Format renders p with the given variable symbol. Zero terms are omitted,
// degree 0 prints the bare coefficient, degree 1 prints "cx" and higher
// degrees print "cx^k". The zero polynomial renders as "0".
func (p Polynomial[E]) Format(symbol string) string {
	var terms []string
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if ring.IsZero(p.r, c) {
			continue
		}
		s := p.r.Format(c)
		switch i {
		case 0:
			terms = append(terms, s)
		case 1:
			terms = append(terms, s+symbol)
		default:
			terms = append(terms, fmt.Sprintf("%s%s^%d", s, symbol, i))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

// GoString prints the raw coefficient list, trailing zeros included.
func (p Polynomial[E]) GoString() string {
	return fmt.Sprintf("Polynomial[%s]%v", p.r.Name(), ring.FormatAll(p.r, p.coeffs))
}
