// Command generate-golden writes internal/polymul/testdata/golden.json, the
// reference products the multiplier tests compare against.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/polymul/internal/cli"
)

// GoldenData is one entry of golden.json. Coefficients are decimal
// integers, lowest degree first.
type GoldenData struct {
	Name    string   `json:"name"`
	A       []string `json:"a"`
	B       []string `json:"b"`
	Product []string `json:"product"`
}

type goldenCase struct {
	name string
	a, b []*big.Int
}

func main() {
	dir := flag.String("out", "internal/polymul/testdata", "directory receiving golden.json")
	flag.Parse()

	path := filepath.Join(*dir, "golden.json")
	if err := run(path, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "generate-golden:", err)
		os.Exit(1)
	}
}

// run computes every case with math/big and replaces path in one rename.
func run(path string, progress io.Writer) error {
	cases := goldenCases()
	data := make([]GoldenData, 0, len(cases))
	for _, c := range cases {
		data = append(data, GoldenData{
			Name:    c.name,
			A:       decimal(c.a),
			B:       decimal(c.b),
			Product: decimal(mulBig(c.a, c.b)),
		})
		fmt.Fprintf(progress, "  %-24s %3d x %3d\n", c.name, len(c.a), len(c.b))
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := cli.WriteFileAtomic(path, append(raw, '\n'), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(progress, "%d cases written to %s\n", len(data), path)
	return nil
}

// goldenCases lists hand-picked edge cases, then pseudo-random operands of
// awkward lengths (padding) and of large coefficients (the prime fields).
func goldenCases() []goldenCase {
	cases := []goldenCase{
		{"linear-times-quadratic", ints(2, 1), ints(4, 3, 2)},
		{"square-0-to-4", ints(0, 1, 2, 3, 4), ints(0, 1, 2, 3, 4)},
		{"constants", ints(7), ints(-3)},
		{"zero-operand", ints(0), ints(1, 2, 3)},
		{"trailing-zeros", ints(1, 2, 0, 0), ints(3, 0)},
	}
	shapes := []struct {
		la, lb, seed int
		large        bool
	}{
		{3, 5, 1, false}, {8, 8, 2, false}, {13, 6, 3, false}, {16, 16, 4, false},
		{31, 33, 5, false}, {64, 64, 6, false}, {100, 37, 7, false},
		{5, 4, 8, true}, {17, 17, 9, true},
	}
	for _, sh := range shapes {
		gen, kind := smallCoeffs, "small"
		if sh.large {
			gen, kind = largeCoeffs, "large"
		}
		cases = append(cases, goldenCase{
			name: fmt.Sprintf("%s-%dx%d", kind, sh.la, sh.lb),
			a:    gen(sh.la, sh.seed),
			b:    gen(sh.lb, sh.seed+100),
		})
	}
	return cases
}

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

// smallCoeffs returns n coefficients in [-1000, 1000].
func smallCoeffs(n, seed int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = big.NewInt(int64((i*7919+seed*104729)%2001 - 1000))
	}
	return out
}

// largeCoeffs returns n coefficients around 10^18·(i+1) that overflow int64
// once multiplied.
func largeCoeffs(n, seed int) []*big.Int {
	base := new(big.Int).Mul(big.NewInt(1_000_000_007), big.NewInt(1_000_000_009))
	out := make([]*big.Int, n)
	for i := range out {
		c := new(big.Int).Mul(base, big.NewInt(int64((i+1)*(seed+1))))
		out[i] = c.Add(c, big.NewInt(int64(i)))
	}
	return out
}

// mulBig is the schoolbook product over math/big integers, used as the
// oracle.
func mulBig(a, b []*big.Int) []*big.Int {
	out := make([]*big.Int, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}
	return out
}

func decimal(xs []*big.Int) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.String()
	}
	return out
}
