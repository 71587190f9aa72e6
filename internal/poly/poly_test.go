package poly

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/agbru/polymul/internal/ring"
)

var ints = ring.Int64{}

func TestFrom(t *testing.T) {
	t.Parallel()

	_, err := From[int64](ints, nil)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = New[int64](ints)
	require.ErrorIs(t, err, ErrEmpty)

	src := []int64{1, 2, 3}
	p, err := From[int64](ints, src)
	require.NoError(t, err)
	src[0] = 99
	require.Equal(t, int64(1), p.Coeff(0), "From must copy its input")

	c := p.Coeffs()
	c[1] = 99
	require.Equal(t, int64(2), p.Coeff(1), "Coeffs must return a copy")

	require.Equal(t, 3, p.Len())
	require.Equal(t, 2, p.Degree())
	require.Equal(t, int64(0), p.Coeff(7))
	require.Equal(t, int64(0), p.Coeff(-1))
}

func TestMustNewPanicsOnEmpty(t *testing.T) {
	t.Parallel()
	require.PanicsWithError(t, ErrEmpty.Error(), func() { MustNew[int64](ints) })
}

func TestAddSub(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		x, y    []int64
		sum     []int64
		diff    []int64
		wantLen int
	}{
		{"same length", []int64{1, 2}, []int64{3, 4}, []int64{4, 6}, []int64{-2, -2}, 2},
		{"left longer", []int64{1, 2, 3}, []int64{1}, []int64{2, 2, 3}, []int64{0, 2, 3}, 3},
		{"right longer", []int64{5}, []int64{1, 1, 1}, []int64{6, 1, 1}, []int64{4, -1, -1}, 3},
		{"cancel to zero", []int64{1, 2}, []int64{1, 2}, []int64{2, 4}, []int64{0, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sum := Add[int64](ints, tt.x, tt.y)
			diff := Sub[int64](ints, tt.x, tt.y)
			require.Equal(t, tt.sum, sum)
			require.Equal(t, tt.diff, diff)
			require.Len(t, sum, tt.wantLen)
			require.Len(t, diff, tt.wantLen)
		})
	}
}

func TestMulMonomial(t *testing.T) {
	t.Parallel()

	in := []int64{1, 2, 3}
	out := MulMonomial[int64](ints, in, 2, 5)
	require.Equal(t, []int64{0, 0, 5, 10, 15}, out)
	require.Equal(t, []int64{1, 2, 3}, in, "input must not be modified")

	require.Equal(t, []int64{0, 1, 2, 3}, Shift[int64](ints, in, 1))
	require.Equal(t, []int64{1, 2, 3}, Shift[int64](ints, in, 0))
	require.Equal(t, []int64{-1, -2, -3}, Scale[int64](ints, in, -1))

	require.Panics(t, func() { MulMonomial[int64](ints, in, -1, 1) })
	require.Panics(t, func() { Shift[int64](ints, in, -1) })
}

func TestEqualIgnoresTrailingZeros(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x, y []int64
		want bool
	}{
		{"identical", []int64{1, 2}, []int64{1, 2}, true},
		{"padded right", []int64{1, 2}, []int64{1, 2, 0, 0}, true},
		{"padded left", []int64{1, 2, 0}, []int64{1, 2}, true},
		{"zero vs zeros", []int64{0}, []int64{0, 0, 0}, true},
		{"different", []int64{1, 2}, []int64{1, 3}, false},
		{"nonzero tail", []int64{1, 2}, []int64{1, 2, 0, 1}, false},
		{"leading zero is significant", []int64{0, 1}, []int64{1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Equal[int64](ints, tt.x, tt.y); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
			a, b := MustNew[int64](ints, tt.x...), MustNew[int64](ints, tt.y...)
			if got := a.Equal(b); got != tt.want {
				t.Errorf("Polynomial.Equal(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPolynomialOps(t *testing.T) {
	t.Parallel()

	p := MustNew[int64](ints, 2, 1)
	q := MustNew[int64](ints, 4, 3, 2)

	require.Equal(t, []int64{6, 4, 2}, p.Add(q).Coeffs())
	require.Equal(t, []int64{-2, -2, -2}, p.Sub(q).Coeffs())
	require.Equal(t, []int64{0, 0, 2, 1}, p.Shift(2).Coeffs())
	require.Equal(t, []int64{0, 6, 3}, p.MulMonomial(1, 3).Coeffs())
	require.Equal(t, []int64{4, 2}, p.Scale(2).Coeffs())
	require.Equal(t, []int64{2, 1}, p.Coeffs(), "operations must not mutate the receiver")

	padded := p.Pad(8)
	require.Equal(t, 8, padded.Len())
	require.True(t, padded.Equal(p))
	require.Equal(t, 2, p.Pad(1).Len())

	require.Equal(t, 1, padded.LeadingDegree())
	require.Equal(t, 2, padded.Trim().Len())
	require.True(t, Zero[int64](ints).IsZero())
	require.True(t, MustNew[int64](ints, 0, 0, 0).IsZero())
	require.Equal(t, -1, MustNew[int64](ints, 0, 0).LeadingDegree())
	require.Equal(t, 1, MustNew[int64](ints, 0, 0).Trim().Len())
	require.False(t, One[int64](ints).IsZero())
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	// 4 + 3x + 2x² at x = 3
	q := MustNew[int64](ints, 4, 3, 2)
	require.Equal(t, int64(31), q.Evaluate(3))
	require.Equal(t, int64(4), q.Evaluate(0))

	zmod, err := ring.NewZMod(7)
	require.NoError(t, err)
	p, err := FromInt64s[uint64](zmod, 4, 3, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(31%7), p.Evaluate(3))
}

func TestString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		coeffs []int64
		want   string
	}{
		{"constant", []int64{5}, "5"},
		{"zero", []int64{0}, "0"},
		{"zeros", []int64{0, 0, 0}, "0"},
		{"linear", []int64{2, 1}, "1x + 2"},
		{"product", []int64{8, 10, 7, 2}, "2x^3 + 7x^2 + 10x + 8"},
		{"gaps", []int64{0, 3, 0, 0, 1}, "1x^4 + 3x"},
		{"trailing zeros", []int64{1, 0, 0}, "1"},
		{"negative", []int64{-1, 2}, "2x + -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MustNew[int64](ints, tt.coeffs...).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	require.Equal(t, "3t^2 + 1", MustNew[int64](ints, 1, 0, 3).Format("t"))
	require.Equal(t, "Polynomial[int64][1 0 3]", MustNew[int64](ints, 1, 0, 3).GoString())
}

func TestPowerOfTwoHelpers(t *testing.T) {
	t.Parallel()
	for n, want := range map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 1000: 1024} {
		if got := NextPowerOfTwo(n); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
	for n, want := range map[int]bool{0: false, 1: true, 2: true, 6: false, 64: true, -4: false} {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

// TestAddSub_PropertyBased checks that subtraction undoes addition and that
// padding never changes equality.
func TestAddSub_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coeffs := gen.SliceOf(gen.Int64Range(-1000, 1000))

	properties.Property("(x+y)-y equals x", prop.ForAll(
		func(x, y []int64) bool {
			return Equal[int64](ints, Sub[int64](ints, Add[int64](ints, x, y), y), x)
		},
		coeffs, coeffs,
	))

	properties.Property("addition is commutative", prop.ForAll(
		func(x, y []int64) bool {
			return Equal[int64](ints, Add[int64](ints, x, y), Add[int64](ints, y, x))
		},
		coeffs, coeffs,
	))

	properties.Property("zero padding preserves equality", prop.ForAll(
		func(x []int64, pad int) bool {
			if len(x) == 0 {
				x = []int64{0}
			}
			p := MustNew[int64](ints, x...)
			return p.Pad(len(x) + pad).Equal(p)
		},
		coeffs, gen.IntRange(0, 16),
	))

	properties.TestingRun(t)
}
