package ring

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

// ErrInvalidModulus is returned by NewZMod for moduli outside [2, 2⁶³).
var ErrInvalidModulus = errors.New("modulus must satisfy 2 <= q < 2^63")

// ZMod is the ring ℤ/qℤ. Elements are canonical residues in [0, q).
type ZMod struct {
	q uint64
}

var _ Ring[uint64] = ZMod{}

// NewZMod returns ℤ/qℤ. q need not be prime.
func NewZMod(q uint64) (ZMod, error) {
	if q < 2 || q >= 1<<63 {
		return ZMod{}, fmt.Errorf("%w: got %d", ErrInvalidModulus, q)
	}
	return ZMod{q: q}, nil
}

// Modulus returns q.
func (r ZMod) Modulus() uint64 { return r.q }

func (r ZMod) Name() string           { return NameZMod }
func (r ZMod) Zero() uint64           { return 0 }
func (r ZMod) One() uint64            { return 1 % r.q }
func (r ZMod) Equal(x, y uint64) bool { return x == y }

// Add returns x + y mod q. q < 2⁶³ so the sum cannot overflow.
func (r ZMod) Add(x, y uint64) uint64 {
	s := x + y
	if s >= r.q {
		s -= r.q
	}
	return s
}

// Sub returns x - y mod q.
func (r ZMod) Sub(x, y uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x + r.q - y
}

// Mul returns x * y mod q using a full 128-bit product.
func (r ZMod) Mul(x, y uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	return bits.Rem64(hi, lo, r.q)
}

// FromInt64 reduces v into [0, q).
func (r ZMod) FromInt64(v int64) uint64 {
	if v >= 0 {
		return uint64(v) % r.q
	}
	m := (^uint64(v) + 1) % r.q // |v| mod q, valid for math.MinInt64 too
	if m == 0 {
		return 0
	}
	return r.q - m
}

// Parse accepts any signed or unsigned base-10 integer and reduces it mod q.
func (r ZMod) Parse(s string) (uint64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return r.FromInt64(v), nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid residue %q: %w", s, err)
	}
	return u % r.q, nil
}

func (r ZMod) Format(x uint64) string { return strconv.FormatUint(x, 10) }
