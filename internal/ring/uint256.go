package ring

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Uint256 is ℤ/2²⁵⁶ℤ: unsigned 256-bit integers with wrapping arithmetic,
// the word type of EVM-style machines.
type Uint256 struct{}

var _ Ring[uint256.Int] = Uint256{}

func (Uint256) Name() string { return NameUint256 }

func (Uint256) Zero() uint256.Int { return uint256.Int{} }

func (Uint256) One() uint256.Int { return *uint256.NewInt(1) }

func (Uint256) Add(x, y uint256.Int) uint256.Int {
	var z uint256.Int
	z.Add(&x, &y)
	return z
}

func (Uint256) Sub(x, y uint256.Int) uint256.Int {
	var z uint256.Int
	z.Sub(&x, &y)
	return z
}

func (Uint256) Mul(x, y uint256.Int) uint256.Int {
	var z uint256.Int
	z.Mul(&x, &y)
	return z
}

func (Uint256) Equal(x, y uint256.Int) bool { return x.Eq(&y) }

// FromInt64 maps negative values to their two's-complement residue.
func (Uint256) FromInt64(v int64) uint256.Int {
	if v >= 0 {
		return *uint256.NewInt(uint64(v))
	}
	var z uint256.Int
	z.Neg(uint256.NewInt(uint64(-(v + 1)) + 1))
	return z
}

// Parse accepts a decimal string, or hex with a 0x prefix.
func (Uint256) Parse(s string) (uint256.Int, error) {
	var (
		z   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		z, err = uint256.FromHex(s)
	} else {
		z, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return uint256.Int{}, fmt.Errorf("invalid uint256 %q: %w", s, err)
	}
	return *z, nil
}

func (Uint256) Format(x uint256.Int) string { return x.Dec() }
