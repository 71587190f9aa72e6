package bench

import (
	"encoding/binary"
	"math/rand/v2"

	bls377fr "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/agbru/polymul/internal/ring"
)

// smallRange bounds SampleSmallInts to [-smallRange, smallRange].
const smallRange = 1000

// SampleInt64 draws a full-width int64. Products wrap, as the ring does.
func SampleInt64(rng *rand.Rand) int64 { return int64(rng.Uint64()) }

// SampleSmallInts draws integers in [-1000, 1000] mapped into r. For float64
// every partial sum of the sweep sizes stays an exact integer, so both
// algorithms agree bit for bit.
func SampleSmallInts[E any](r ring.Ring[E]) Sampler[E] {
	return func(rng *rand.Rand) E {
		return r.FromInt64(rng.Int64N(2*smallRange+1) - smallRange)
	}
}

// SampleZMod draws a uniform residue of r.
func SampleZMod(r ring.ZMod) Sampler[uint64] {
	q := r.Modulus()
	return func(rng *rand.Rand) uint64 { return rng.Uint64N(q) }
}

func randomBytes32(rng *rand.Rand) []byte {
	var buf [32]byte
	for i := 0; i < len(buf); i += 8 {
		binary.BigEndian.PutUint64(buf[i:], rng.Uint64())
	}
	return buf[:]
}

// SampleBN254 draws a field element reduced from 256 random bits.
func SampleBN254(rng *rand.Rand) bn254fr.Element {
	var e bn254fr.Element
	e.SetBytes(randomBytes32(rng))
	return e
}

// SampleBLS12377 draws a field element reduced from 256 random bits.
func SampleBLS12377(rng *rand.Rand) bls377fr.Element {
	var e bls377fr.Element
	e.SetBytes(randomBytes32(rng))
	return e
}

// SampleUint256 draws a uniform 256-bit word.
func SampleUint256(rng *rand.Rand) uint256.Int {
	return uint256.Int{rng.Uint64(), rng.Uint64(), rng.Uint64(), rng.Uint64()}
}
