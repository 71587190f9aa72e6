package ring

import (
	"fmt"

	bls377fr "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// BN254 is the scalar field of the BN254 curve, backed by gnark-crypto's
// Montgomery-form fr.Element.
type BN254 struct{}

var _ Ring[bn254fr.Element] = BN254{}

func (BN254) Name() string { return NameBN254 }

func (BN254) Zero() bn254fr.Element { return bn254fr.Element{} }

func (BN254) One() bn254fr.Element { return bn254fr.One() }

func (BN254) Add(x, y bn254fr.Element) bn254fr.Element {
	var z bn254fr.Element
	z.Add(&x, &y)
	return z
}

func (BN254) Sub(x, y bn254fr.Element) bn254fr.Element {
	var z bn254fr.Element
	z.Sub(&x, &y)
	return z
}

func (BN254) Mul(x, y bn254fr.Element) bn254fr.Element {
	var z bn254fr.Element
	z.Mul(&x, &y)
	return z
}

func (BN254) Equal(x, y bn254fr.Element) bool { return x.Equal(&y) }

func (BN254) FromInt64(v int64) bn254fr.Element {
	var z bn254fr.Element
	z.SetInt64(v)
	return z
}

// Parse accepts decimal, or hex with a 0x prefix.
func (BN254) Parse(s string) (bn254fr.Element, error) {
	var z bn254fr.Element
	if _, err := z.SetString(s); err != nil {
		return bn254fr.Element{}, fmt.Errorf("invalid bn254 element %q: %w", s, err)
	}
	return z, nil
}

func (BN254) Format(x bn254fr.Element) string { return x.Text(10) }

// BLS12377 is the scalar field of the BLS12-377 curve.
type BLS12377 struct{}

var _ Ring[bls377fr.Element] = BLS12377{}

func (BLS12377) Name() string { return NameBLS12377 }

func (BLS12377) Zero() bls377fr.Element { return bls377fr.Element{} }

func (BLS12377) One() bls377fr.Element { return bls377fr.One() }

func (BLS12377) Add(x, y bls377fr.Element) bls377fr.Element {
	var z bls377fr.Element
	z.Add(&x, &y)
	return z
}

func (BLS12377) Sub(x, y bls377fr.Element) bls377fr.Element {
	var z bls377fr.Element
	z.Sub(&x, &y)
	return z
}

func (BLS12377) Mul(x, y bls377fr.Element) bls377fr.Element {
	var z bls377fr.Element
	z.Mul(&x, &y)
	return z
}

func (BLS12377) Equal(x, y bls377fr.Element) bool { return x.Equal(&y) }

func (BLS12377) FromInt64(v int64) bls377fr.Element {
	var z bls377fr.Element
	z.SetInt64(v)
	return z
}

func (BLS12377) Parse(s string) (bls377fr.Element, error) {
	var z bls377fr.Element
	if _, err := z.SetString(s); err != nil {
		return bls377fr.Element{}, fmt.Errorf("invalid bls12-377 element %q: %w", s, err)
	}
	return z, nil
}

func (BLS12377) Format(x bls377fr.Element) string { return x.Text(10) }
