package polymul

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/polymul/internal/poly"
)

// Registered multiplier names.
const (
	NameSchoolbook        = "schoolbook"
	NameKaratsuba         = "karatsuba"
	NameKaratsubaParallel = "karatsuba-parallel"
)

// ErrEmptyOperand is returned by a Multiplier given a polynomial with no
// coefficients (the zero value of poly.Polynomial).
var ErrEmptyOperand = errors.New("operand has no coefficients")

// Multiplier multiplies two polynomials over the same ring.
type Multiplier[E any] interface {
	// Name returns the registry name of the algorithm.
	Name() string
	// Multiply returns a·b.
	Multiply(a, b poly.Polynomial[E]) (poly.Polynomial[E], error)
}

// Func adapts a plain multiplication function to the Multiplier interface.
type Func[E any] struct {
	name string
	fn   func(a, b poly.Polynomial[E]) poly.Polynomial[E]
}

// NewFunc returns a Multiplier named name that calls fn.
func NewFunc[E any](name string, fn func(a, b poly.Polynomial[E]) poly.Polynomial[E]) *Func[E] {
	return &Func[E]{name: name, fn: fn}
}

func (f *Func[E]) Name() string { return f.name }

func (f *Func[E]) Multiply(a, b poly.Polynomial[E]) (poly.Polynomial[E], error) {
	if a.Len() == 0 || b.Len() == 0 {
		return poly.Polynomial[E]{}, fmt.Errorf("%s: %w", f.name, ErrEmptyOperand)
	}
	return f.fn(a, b), nil
}

// KaratsubaMultiplier runs MultiplyKaratsubaWith with fixed options.
type KaratsubaMultiplier[E any] struct {
	name string
	opts Options
}

// NewKaratsubaMultiplier returns a Multiplier named name that multiplies with
// opts.
func NewKaratsubaMultiplier[E any](name string, opts Options) *KaratsubaMultiplier[E] {
	return &KaratsubaMultiplier[E]{name: name, opts: opts.normalize()}
}

func (k *KaratsubaMultiplier[E]) Name() string { return k.name }

// Options returns the normalized options k multiplies with.
func (k *KaratsubaMultiplier[E]) Options() Options { return k.opts }

func (k *KaratsubaMultiplier[E]) Multiply(a, b poly.Polynomial[E]) (poly.Polynomial[E], error) {
	if a.Len() == 0 || b.Len() == 0 {
		return poly.Polynomial[E]{}, fmt.Errorf("%s: %w", k.name, ErrEmptyOperand)
	}
	return MultiplyKaratsubaWith(a, b, k.opts), nil
}

// Factory is a thread-safe registry of multipliers for one element type.
type Factory[E any] struct {
	mu          sync.RWMutex
	multipliers map[string]Multiplier[E]
}

// NewFactory returns a Factory with the built-in multipliers registered:
//   - "schoolbook": direct convolution
//   - "karatsuba": sequential Karatsuba with opts.Threshold
//   - "karatsuba-parallel": Karatsuba with opts as given, so it forks only
//     when opts.ParallelThreshold is positive
func NewFactory[E any](opts Options) *Factory[E] {
	f := &Factory[E]{multipliers: make(map[string]Multiplier[E])}

	f.Register(NewFunc(NameSchoolbook, MultiplySchoolbook[E]))
	f.Register(NewKaratsubaMultiplier[E](NameKaratsuba, Options{Threshold: opts.Threshold}))
	f.Register(NewKaratsubaMultiplier[E](NameKaratsubaParallel, opts))
	return f
}

// Register adds m, replacing any multiplier with the same name.
func (f *Factory[E]) Register(m Multiplier[E]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.multipliers[m.Name()] = m
}

// Get returns the multiplier registered under name.
func (f *Factory[E]) Get(name string) (Multiplier[E], error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.multipliers[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return m, nil
}

// Has reports whether name is registered.
func (f *Factory[E]) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.multipliers[name]
	return ok
}

// List returns the registered names in sorted order.
func (f *Factory[E]) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.multipliers))
	for name := range f.multipliers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the built-in multiplier names in sorted order. It does not
// depend on the element type.
func Names() []string {
	names := []string{NameSchoolbook, NameKaratsuba, NameKaratsubaParallel}
	sort.Strings(names)
	return names
}
