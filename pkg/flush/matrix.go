// Package flush implements the pure arithmetic on the flush volume matrix:
// multiplier scaling and the prime-volume correction applied when a prime
// tower pre-primes the next filament.
//
// The matrix is a row-major 4x4 grid of non-negative integer volumes (mm^3),
// one entry per ordered tool pair. All functions are pure and never mutate
// their inputs.
package flush

import (
	"fmt"
	"math"
	"strings"

	"github.com/printforge/cfspost/pkg/gcode"
)

// MinVolume is the floor applied to non-zero entries after the prime-volume
// subtraction. A flush below this amount does not reliably clear the melt
// zone on a color change.
const MinVolume = 100

// Scale multiplies every matrix entry by multiplier and rounds to the
// nearest integer, clamping at 0. Ties round away from zero (math.Round);
// negative results can only arise from floating error with multiplier near
// zero and are clamped.
func Scale(matrix []int, multiplier float64) []int {
	scaled := make([]int, len(matrix))
	for i, v := range matrix {
		s := int(math.Round(float64(v) * multiplier))
		if s < 0 {
			s = 0
		}
		scaled[i] = s
	}
	return scaled
}

// SubtractPrime subtracts volume from every non-zero entry, flooring the
// result at MinVolume. Zero entries are deliberately disabled flushes and
// stay zero; a non-zero entry never drops below MinVolume and never becomes
// zero through subtraction.
func SubtractPrime(matrix []int, volume int) []int {
	out := make([]int, len(matrix))
	for i, v := range matrix {
		if v == 0 {
			continue
		}
		s := v - volume
		if s < MinVolume {
			s = MinVolume
		}
		out[i] = s
	}
	return out
}

// Transform applies the full matrix policy: scale by multiplier, then, iff
// the prime tower is enabled and primeVolume is a positive value, apply the
// prime-volume correction. primeVolume may be nil when the directive was
// absent.
func Transform(matrix []int, multiplier float64, primeTower bool, primeVolume *int) []int {
	scaled := Scale(matrix, multiplier)
	if primeTower && primeVolume != nil && *primeVolume > 0 {
		scaled = SubtractPrime(scaled, *primeVolume)
	}
	return scaled
}

// Payload formats a matrix as the comma-separated directive payload,
// e.g. "0, 250, 250, 0, ...".
func Payload(matrix []int) string {
	parts := make([]string, len(matrix))
	for i, v := range matrix {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

// Rows formats a matrix as fixed-width 4x4 grid rows for report output.
func Rows(matrix []int) []string {
	rows := make([]string, 0, gcode.ToolCount)
	for r := 0; r < gcode.ToolCount; r++ {
		cells := make([]string, gcode.ToolCount)
		for c := 0; c < gcode.ToolCount; c++ {
			cells[c] = fmt.Sprintf("%4d", matrix[r*gcode.ToolCount+c])
		}
		rows = append(rows, strings.Join(cells, ", "))
	}
	return rows
}
