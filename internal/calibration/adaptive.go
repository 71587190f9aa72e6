package calibration

import (
	"runtime"

	"github.com/agbru/polymul/internal/ring"
)

// CalibrationSizes are the operand lengths measured by a full calibration.
// The recommendation comes from the largest one.
var CalibrationSizes = []int{256, 1024, 2048}

// QuickCalibrationSizes are used by a quick calibration.
var QuickCalibrationSizes = []int{512}

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Threshold Generation
// ─────────────────────────────────────────────────────────────────────────────

// heavyRing reports whether an element multiplication of the ring costs many
// machine words of work. Karatsuba trades multiplications for additions, so
// on these rings it pays off at smaller operands.
func heavyRing(name string) bool {
	switch name {
	case ring.NameBN254, ring.NameBLS12377, ring.NameUint256:
		return true
	default:
		return false
	}
}

// maxCandidate returns the largest threshold worth trying on ringName.
func maxCandidate(ringName string) int {
	if heavyRing(ringName) {
		return 64
	}
	return 256
}

// GenerateThresholds returns the power-of-two base-case thresholds to test
// at operand length size: 1, 2, 4, ... up to the smaller of size and a
// ring-dependent cap.
func GenerateThresholds(ringName string, size int) []int {
	limit := min(size, maxCandidate(ringName))
	var thresholds []int
	for t := 1; t <= limit; t *= 2 {
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// GenerateQuickThresholds returns every other candidate of
// GenerateThresholds, always keeping the largest.
func GenerateQuickThresholds(ringName string, size int) []int {
	full := GenerateThresholds(ringName, size)
	var quick []int
	for i, t := range full {
		if i%2 == 0 || i == len(full)-1 {
			quick = append(quick, t)
		}
	}
	return quick
}

// GenerateParallelThresholds returns the parallel thresholds to test at
// operand length size, based on the number of available CPU cores. 0 keeps
// the multiplier sequential and is always tested.
func GenerateParallelThresholds(size int) []int {
	numCPU := runtime.NumCPU()

	thresholds := []int{0}
	var candidates []int
	switch {
	case numCPU == 1:
		return thresholds
	case numCPU <= 4:
		candidates = []int{512, 1024, 2048}
	case numCPU <= 16:
		candidates = []int{256, 512, 1024, 2048}
	default:
		candidates = []int{128, 256, 512, 1024, 2048}
	}
	for _, c := range candidates {
		if c <= size {
			thresholds = append(thresholds, c)
		}
	}
	return thresholds
}

// ─────────────────────────────────────────────────────────────────────────────
// Threshold Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalThreshold provides a heuristic base-case threshold for
// ringName without running benchmarks.
func EstimateOptimalThreshold(ringName string) int {
	if heavyRing(ringName) {
		return 8
	}
	return 32
}

// EstimateOptimalParallelThreshold provides a heuristic estimate of the
// optimal parallel threshold without running benchmarks.
func EstimateOptimalParallelThreshold() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 0
	case numCPU <= 4:
		return 2048
	case numCPU <= 16:
		return 1024
	default:
		return 512
	}
}
