package cli

import (
	"fmt"
	"io"

	bls377fr "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
	"github.com/agbru/polymul/internal/ui"
)

// DemoOperands are the sample products of the demo, as coefficient lists in
// ascending degree: (2 + x)(4 + 3x + 2x²) and (x + 2x² + 3x³ + 4x⁴)².
var DemoOperands = [][2][]int64{
	{{2, 1}, {4, 3, 2}},
	{{0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}},
}

// RunDemo multiplies the demo operands over the named ring with every
// registered multiplier and prints the rendered products.
//
// Returns:
//   - error: A ConfigError for an unknown ring or modulus, or a MismatchError
//     if a multiplier disagrees with schoolbook.
func RunDemo(out io.Writer, ringName string, modulus uint64, threshold int) error {
	switch ringName {
	case ring.NameInt64:
		return Demo[int64](out, ring.Int64{}, threshold)
	case ring.NameFloat64:
		return Demo[float64](out, ring.Float64{}, threshold)
	case ring.NameZMod:
		r, err := ring.NewZMod(modulus)
		if err != nil {
			return apperrors.NewConfigError("%v", err)
		}
		return Demo[uint64](out, r, threshold)
	case ring.NameBN254:
		return Demo[bn254fr.Element](out, ring.BN254{}, threshold)
	case ring.NameBLS12377:
		return Demo[bls377fr.Element](out, ring.BLS12377{}, threshold)
	case ring.NameUint256:
		return Demo[uint256.Int](out, ring.Uint256{}, threshold)
	default:
		return apperrors.NewConfigError("unrecognized ring: '%s'", ringName)
	}
}

// Demo prints every demo product computed by each multiplier of a factory
// over r. The first product of each pair comes from schoolbook and the others
// are checked against it.
func Demo[E any](out io.Writer, r ring.Ring[E], threshold int) error {
	factory := polymul.NewFactory[E](polymul.ParallelOptions(threshold))
	oracle, err := factory.Get(polymul.NameSchoolbook)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "--- Demo over %s%s%s (threshold %d) ---\n", ui.ColorMagenta(), r.Name(), ui.ColorReset(), threshold)
	for _, pair := range DemoOperands {
		a, err := poly.FromInt64s(r, pair[0]...)
		if err != nil {
			return err
		}
		b, err := poly.FromInt64s(r, pair[1]...)
		if err != nil {
			return err
		}
		want, err := oracle.Multiply(a, b)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n(%s) * (%s)\n", a, b)
		for _, name := range factory.List() {
			m, err := factory.Get(name)
			if err != nil {
				return err
			}
			got, err := m.Multiply(a, b)
			if err != nil {
				return err
			}
			if !got.Equal(want) {
				return apperrors.NewMismatchError(a.Len(), name, firstDiff(got, want))
			}
			fmt.Fprintf(out, "  %s%-20s%s = %s%s%s\n",
				ui.ColorCyan(), name, ui.ColorReset(), ui.ColorGreen(), got, ui.ColorReset())
		}
	}
	return nil
}

func firstDiff[E any](got, want poly.Polynomial[E]) int {
	r := want.Ring()
	n := max(got.Len(), want.Len())
	for i := 0; i < n; i++ {
		if !r.Equal(got.Coeff(i), want.Coeff(i)) {
			return i
		}
	}
	return -1
}
