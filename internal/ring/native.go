package ring

import (
	"fmt"
	"strconv"
)

// Int64 is ℤ with two's-complement wrapping, i.e. ℤ/2⁶⁴ℤ with signed
// representatives. Products of moderately sized inputs are exact.
type Int64 struct{}

var _ Ring[int64] = Int64{}

func (Int64) Name() string            { return NameInt64 }
func (Int64) Zero() int64             { return 0 }
func (Int64) One() int64              { return 1 }
func (Int64) Add(x, y int64) int64    { return x + y }
func (Int64) Sub(x, y int64) int64    { return x - y }
func (Int64) Mul(x, y int64) int64    { return x * y }
func (Int64) Equal(x, y int64) bool   { return x == y }
func (Int64) FromInt64(v int64) int64 { return v }
func (Int64) Format(x int64) string   { return strconv.FormatInt(x, 10) }

// Parse reads a base-10 integer.
func (Int64) Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int64 %q: %w", s, err)
	}
	return v, nil
}

// Float64 is the IEEE-754 double precision "ring". Addition is not
// associative, so Karatsuba and schoolbook agree exactly only while every
// intermediate value is exactly representable (e.g. small integers).
type Float64 struct{}

var _ Ring[float64] = Float64{}

func (Float64) Name() string              { return NameFloat64 }
func (Float64) Zero() float64             { return 0 }
func (Float64) One() float64              { return 1 }
func (Float64) Add(x, y float64) float64  { return x + y }
func (Float64) Sub(x, y float64) float64  { return x - y }
func (Float64) Mul(x, y float64) float64  { return x * y }
func (Float64) Equal(x, y float64) bool   { return x == y }
func (Float64) FromInt64(v int64) float64 { return float64(v) }
func (Float64) Format(x float64) string   { return strconv.FormatFloat(x, 'g', -1, 64) }

// Parse reads a decimal or scientific-notation float.
func (Float64) Parse(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float64 %q: %w", s, err)
	}
	return v, nil
}
