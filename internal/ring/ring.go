// Package ring defines the coefficient rings polynomials are built over.
//
// A Ring is a descriptor: it carries no per-element state and exposes the
// operations (identities, +, -, *, equality) on plain values of its element
// type. This keeps elements cheap to copy and lets the multiplication
// algorithms be written once and instantiated over int64, float64, residues
// modulo q, prime fields and 256-bit wrapping integers.
package ring

import (
	"fmt"
	"sort"
)

// Ring is the capability set every coefficient type must provide.
//
// Implementations must be safe for concurrent use: the parallel multiplier
// calls them from several goroutines at once.
type Ring[E any] interface {
	// Name identifies the ring (e.g. "int64", "zmod").
	Name() string
	// Zero returns the additive identity.
	Zero() E
	// One returns the multiplicative identity.
	One() E
	// Add returns x + y.
	Add(x, y E) E
	// Sub returns x - y.
	Sub(x, y E) E
	// Mul returns x * y.
	Mul(x, y E) E
	// Equal reports whether x and y denote the same ring element.
	Equal(x, y E) bool
	// FromInt64 maps an integer into the ring through the canonical
	// homomorphism from ℤ.
	FromInt64(v int64) E
	// Parse reads an element from its textual form.
	Parse(s string) (E, error)
	// Format renders an element for display.
	Format(x E) string
}

// Built-in ring names, as accepted by the -ring flag and the HTTP API.
const (
	NameInt64    = "int64"
	NameFloat64  = "float64"
	NameZMod     = "zmod"
	NameBN254    = "bn254"
	NameBLS12377 = "bls12-377"
	NameUint256  = "uint256"
)

// DefaultModulus is the modulus used for the "zmod" ring when none is given.
// It is the NTT-friendly prime 998244353 = 119·2²³ + 1.
const DefaultModulus uint64 = 998244353

// Names returns the sorted list of built-in ring names.
func Names() []string {
	names := []string{NameInt64, NameFloat64, NameZMod, NameBN254, NameBLS12377, NameUint256}
	sort.Strings(names)
	return names
}

// IsKnown reports whether name is a built-in ring.
func IsKnown(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsZero reports whether x equals the ring's zero.
func IsZero[E any](r Ring[E], x E) bool {
	return r.Equal(x, r.Zero())
}

// FromInt64s maps a list of integers into r.
func FromInt64s[E any](r Ring[E], vals ...int64) []E {
	out := make([]E, len(vals))
	for i, v := range vals {
		out[i] = r.FromInt64(v)
	}
	return out
}

// ParseAll parses every string in vals, reporting the index of the first
// element that fails.
func ParseAll[E any](r Ring[E], vals []string) ([]E, error) {
	out := make([]E, len(vals))
	for i, s := range vals {
		e, err := r.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("coefficient %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// FormatAll renders every element of xs.
func FormatAll[E any](r Ring[E], xs []E) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = r.Format(x)
	}
	return out
}
