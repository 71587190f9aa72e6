package polymul

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/ring"
)

// nonEmpty turns a generated slice into a valid coefficient list.
func nonEmpty(c []int64) []int64 {
	if len(c) == 0 {
		return []int64{0}
	}
	return c
}

// TestMultiply_PropertyBased checks the algebraic laws every multiplier must
// satisfy against the schoolbook oracle, using property-based testing.
func TestMultiply_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coeffs := gen.SliceOf(gen.Int64Range(-1000, 1000))
	thresholds := gen.IntRange(0, 5).Map(func(k int) int { return 1 << k })

	properties.Property("karatsuba equals schoolbook for any lengths and threshold", prop.ForAll(
		func(x, y []int64, threshold int) bool {
			a := poly.MustNew[int64](ints, nonEmpty(x)...)
			b := poly.MustNew[int64](ints, nonEmpty(y)...)
			want := MultiplySchoolbook(a, b)
			got := MultiplyKaratsubaWith(a, b, Options{Threshold: threshold})
			return got.Equal(want) && got.Len() == want.Len()
		},
		coeffs, coeffs, thresholds,
	))

	properties.Property("degree of product is the sum of degrees", prop.ForAll(
		func(x, y []int64) bool {
			x, y = nonEmpty(x), nonEmpty(y)
			if x[len(x)-1] == 0 {
				x[len(x)-1] = 1
			}
			if y[len(y)-1] == 0 {
				y[len(y)-1] = -1
			}
			a := poly.MustNew[int64](ints, x...)
			b := poly.MustNew[int64](ints, y...)
			want := a.LeadingDegree() + b.LeadingDegree()
			return MultiplyKaratsuba(a, b).LeadingDegree() == want &&
				MultiplySchoolbook(a, b).LeadingDegree() == want
		},
		coeffs, coeffs,
	))

	properties.Property("one is the identity", prop.ForAll(
		func(x []int64) bool {
			a := poly.MustNew[int64](ints, nonEmpty(x)...)
			one := poly.One[int64](ints)
			return MultiplyKaratsuba(a, one).Equal(a) && MultiplyKaratsuba(one, a).Equal(a) &&
				MultiplySchoolbook(a, one).Equal(a)
		},
		coeffs,
	))

	properties.Property("zero absorbs", prop.ForAll(
		func(x []int64) bool {
			a := poly.MustNew[int64](ints, nonEmpty(x)...)
			zero := poly.Zero[int64](ints)
			return MultiplyKaratsuba(a, zero).IsZero() && MultiplySchoolbook(zero, a).IsZero()
		},
		coeffs,
	))

	properties.Property("multiplication is commutative", prop.ForAll(
		func(x, y []int64) bool {
			a := poly.MustNew[int64](ints, nonEmpty(x)...)
			b := poly.MustNew[int64](ints, nonEmpty(y)...)
			return MultiplyKaratsuba(a, b).Equal(MultiplyKaratsuba(b, a))
		},
		coeffs, coeffs,
	))

	properties.TestingRun(t)
}

// TestEvaluation_PropertyBased checks (a·b)(v) = a(v)·b(v) in ℤ/qℤ, where
// wrap-around makes large evaluation points safe.
func TestEvaluation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	zmod, err := ring.NewZMod(ring.DefaultModulus)
	if err != nil {
		t.Fatal(err)
	}
	coeffs := gen.SliceOf(gen.Int64())

	properties.Property("product evaluates to product of evaluations", prop.ForAll(
		func(x, y []int64, v int64) bool {
			a, _ := poly.FromInt64s[uint64](zmod, nonEmpty(x)...)
			b, _ := poly.FromInt64s[uint64](zmod, nonEmpty(y)...)
			p := zmod.FromInt64(v)
			got := MultiplyKaratsubaWith(a, b, Options{Threshold: 2}).Evaluate(p)
			return got == zmod.Mul(a.Evaluate(p), b.Evaluate(p))
		},
		coeffs, coeffs, gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestPaddedInputs_PropertyBased checks that zero padding on either operand
// never changes the product up to trailing zeros.
func TestPaddedInputs_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	coeffs := gen.SliceOf(gen.Int64Range(-50, 50))

	properties.Property("padding is invisible to equality", prop.ForAll(
		func(x, y []int64, padA, padB int) bool {
			a := poly.MustNew[int64](ints, nonEmpty(x)...)
			b := poly.MustNew[int64](ints, nonEmpty(y)...)
			want := MultiplySchoolbook(a, b)
			got := MultiplyKaratsuba(a.Pad(a.Len()+padA), b.Pad(b.Len()+padB))
			return got.Equal(want)
		},
		coeffs, coeffs, gen.IntRange(0, 20), gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
