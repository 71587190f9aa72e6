package polymul

import (
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/ring"
)

// ─────────────────────────────────────────────────────────────────────────────
// Configuration Constants
// ─────────────────────────────────────────────────────────────────────────────

// DefaultThreshold is the base-case length at which the recursion hands over
// to schoolbook multiplication. A threshold of 1 recurses all the way down.
const DefaultThreshold = 1

// DefaultParallelThreshold is the minimum operand length for which the
// parallel multiplier evaluates its three sub-products concurrently.
const DefaultParallelThreshold = 1024

// DefaultMaxParallelDepth limits how many recursion levels may fork.
const DefaultMaxParallelDepth = 3

// ─────────────────────────────────────────────────────────────────────────────
// Semaphore for Parallelism
// ─────────────────────────────────────────────────────────────────────────────

// forkSlots bounds the goroutines all parallel multiplications in the
// process may run at once. It is sized on first use.
var forkSlots = sync.OnceValue(func() *semaphore.Weighted {
	return semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
})

// ─────────────────────────────────────────────────────────────────────────────
// Core recursion
// ─────────────────────────────────────────────────────────────────────────────

// karatsuba carries the per-call parameters through the recursion.
type karatsuba[E any] struct {
	r                 ring.Ring[E]
	threshold         int
	parallelThreshold int // 0 disables forking
	maxParallelDepth  int
}

// scratchLen returns the scratch length mul needs for operands of length n:
// 2n-1 at each recursive level, nothing at the base case. It is below 4n.
func scratchLen(n, threshold int) int {
	total := 0
	for n > threshold {
		total += 2*n - 1
		n /= 2
	}
	return total
}

// mul writes x·y into out[:2n-1], where n = len(x) = len(y) is a power of
// two. Every element of out[:2n-1] is overwritten. scratch must hold at least
// scratchLen(n, k.threshold) elements and is clobbered.
//
// The halves x0, x1, y0, y1 are sub-slices of the operands. z0 lands in
// out[0:n-1] and z2 in out[n:2n-1]; z3 = (x0+x1)(y0+y1) is built in scratch,
// reduced to z1 = z3-z0-z2 and then added into out at offset n/2.
func (k *karatsuba[E]) mul(out, x, y, scratch []E, depth int) {
	n := len(x)
	if n != len(y) {
		panic("polymul: karatsuba operands differ in length")
	}
	if !poly.IsPowerOfTwo(n) {
		panic("polymul: karatsuba operand length is not a power of two")
	}
	if n <= k.threshold {
		schoolbookInto(k.r, out, x, y)
		return
	}

	r := k.r
	m := n / 2
	x0, x1 := x[:m], x[m:]
	y0, y1 := y[:m], y[m:]

	sx := scratch[:m]
	sy := scratch[m:n]
	z3 := scratch[n : 2*n-1]
	rest := scratch[2*n-1:]
	for i := 0; i < m; i++ {
		sx[i] = r.Add(x0[i], x1[i])
		sy[i] = r.Add(y0[i], y1[i])
	}

	out[n-1] = r.Zero()
	z0 := out[:n-1]
	z2 := out[n : 2*n-1]

	if k.shouldFork(n, depth) {
		k.mulParallel(z0, z2, z3, x0, y0, x1, y1, sx, sy, rest, depth)
	} else {
		k.mul(z0, x0, y0, rest, depth+1)
		k.mul(z2, x1, y1, rest, depth+1)
		k.mul(z3, sx, sy, rest, depth+1)
	}

	for i := range z3 {
		z3[i] = r.Sub(r.Sub(z3[i], z0[i]), z2[i])
	}
	mid := out[m : m+len(z3)]
	for i, c := range z3 {
		mid[i] = r.Add(mid[i], c)
	}
}

func (k *karatsuba[E]) shouldFork(n, depth int) bool {
	return k.parallelThreshold > 0 && n >= k.parallelThreshold && depth < k.maxParallelDepth
}

// mulParallel evaluates z0, z2 and z3 concurrently. z2 and z3 each run on
// their own goroutine with a private scratch buffer when a semaphore slot is
// free; otherwise they run inline on the shared one, like the sequential
// path. z0 always runs on the calling goroutine.
func (k *karatsuba[E]) mulParallel(z0, z2, z3, x0, y0, x1, y1, sx, sy, rest []E, depth int) {
	m := len(x0)
	slots := forkSlots()
	var wg sync.WaitGroup

	fork := func(out, x, y []E) bool {
		if !slots.TryAcquire(1) {
			return false
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer slots.Release(1)
			k.mul(out, x, y, make([]E, scratchLen(m, k.threshold)), depth+1)
		}()
		return true
	}

	forked2 := fork(z2, x1, y1)
	forked3 := fork(z3, sx, sy)
	k.mul(z0, x0, y0, rest, depth+1)
	if !forked2 {
		k.mul(z2, x1, y1, rest, depth+1)
	}
	if !forked3 {
		k.mul(z3, sx, sy, rest, depth+1)
	}
	wg.Wait()
}

// Karatsuba multiplies two coefficient slices of equal power-of-two length n
// and returns the 2n-1 coefficients of their product. Operands of length at
// most threshold are multiplied by schoolbook directly.
//
// Karatsuba panics if the lengths differ, are not a power of two, or if
// threshold < 1. Use KaratsubaChecked to get those conditions as errors.
func Karatsuba[E any](r ring.Ring[E], x, y []E, threshold int) []E {
	if threshold < 1 {
		panic("polymul: karatsuba threshold must be at least 1")
	}
	k := &karatsuba[E]{r: r, threshold: threshold}
	return k.run(x, y)
}

func (k *karatsuba[E]) run(x, y []E) []E {
	n := len(x)
	if n != len(y) {
		panic("polymul: karatsuba operands differ in length")
	}
	if !poly.IsPowerOfTwo(n) {
		panic("polymul: karatsuba operand length is not a power of two")
	}
	out := make([]E, 2*n-1)
	k.mul(out, x, y, make([]E, scratchLen(n, k.threshold)), 0)
	return out
}
