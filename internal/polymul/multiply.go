package polymul

import (
	"errors"
	"fmt"

	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/ring"
)

// Errors returned by KaratsubaChecked for inputs the recursion cannot take.
var (
	ErrLengthMismatch   = errors.New("operands must have equal length")
	ErrNotPowerOfTwo    = errors.New("operand length must be a power of two")
	ErrInvalidThreshold = errors.New("threshold must be a power of two of at least 1")
)

// Options configures the polynomial-level Karatsuba multiplier.
type Options struct {
	// Threshold is the base-case length. Values below 1 mean DefaultThreshold.
	Threshold int
	// ParallelThreshold is the smallest operand length at which the three
	// sub-products run concurrently. Zero keeps the multiplier sequential.
	ParallelThreshold int
	// MaxParallelDepth bounds how many recursion levels may fork. Zero means
	// DefaultMaxParallelDepth.
	MaxParallelDepth int
}

// DefaultOptions returns sequential options with DefaultThreshold.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold}
}

// ParallelOptions returns options that fork above DefaultParallelThreshold.
func ParallelOptions(threshold int) Options {
	return Options{
		Threshold:         threshold,
		ParallelThreshold: DefaultParallelThreshold,
		MaxParallelDepth:  DefaultMaxParallelDepth,
	}
}

func (o Options) normalize() Options {
	if o.Threshold < 1 {
		o.Threshold = DefaultThreshold
	}
	if o.ParallelThreshold < 0 {
		o.ParallelThreshold = 0
	}
	if o.MaxParallelDepth <= 0 {
		o.MaxParallelDepth = DefaultMaxParallelDepth
	}
	return o
}

// KaratsubaChecked is Karatsuba with its preconditions reported as errors
// instead of panics. It also requires threshold to be a power of two.
func KaratsubaChecked[E any](r ring.Ring[E], x, y []E, threshold int) ([]E, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(x), len(y))
	}
	if !poly.IsPowerOfTwo(len(x)) {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, len(x))
	}
	if !poly.IsPowerOfTwo(threshold) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}
	return Karatsuba(r, x, y, threshold), nil
}

// MultiplyKaratsuba returns a·b using Karatsuba with DefaultOptions. The
// operands may have any lengths.
func MultiplyKaratsuba[E any](a, b poly.Polynomial[E]) poly.Polynomial[E] {
	return MultiplyKaratsubaWith(a, b, DefaultOptions())
}

// MultiplyKaratsubaWith returns a·b using Karatsuba configured by opts.
//
// Both operands are zero-padded to the next power of two at least as long as
// the longer one. The product is truncated back to a.Len()+b.Len()-1
// coefficients; the dropped entries are the zero products of the padding.
func MultiplyKaratsubaWith[E any](a, b poly.Polynomial[E], opts Options) poly.Polynomial[E] {
	opts = opts.normalize()
	r := a.Ring()
	n := poly.NextPowerOfTwo(max(a.Len(), b.Len()))

	x, y := a.View(), b.View()
	if len(x) != n {
		x = a.Pad(n).View()
	}
	if len(y) != n {
		y = b.Pad(n).View()
	}

	k := &karatsuba[E]{
		r:                 r,
		threshold:         opts.Threshold,
		parallelThreshold: opts.ParallelThreshold,
		maxParallelDepth:  opts.MaxParallelDepth,
	}
	out := k.run(x, y)
	return poly.Adopt(r, out[:a.Len()+b.Len()-1])
}
