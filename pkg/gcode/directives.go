// Package gcode implements line-level scanning of sliced G-code streams:
// embedded directive comments, wipe-tower region markers, coordinate tokens,
// and tool-select commands.
//
// Scanning is read-only and tolerant by design. A directive that is missing
// or malformed is reported as absent, never as an error; the caller decides
// which features to skip. Patterns follow the comment dialects emitted by
// Creality Print and Orca-family slicers.
package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// Directive patterns. Each is line-anchored, tolerates leading whitespace and
// whitespace around '=', and matches keywords case-insensitively.
var (
	reFlushMultiplier = regexp.MustCompile(`(?i)^\s*;\s*flush_multiplier\s*=\s*([0-9]*\.?[0-9]+)\s*$`)
	reFlushMatrix     = regexp.MustCompile(`(?i)^\s*;\s*flush_volumes_matrix\s*=\s*([0-9,\s]+)$`)
	rePrimeVolume     = regexp.MustCompile(`(?i)^\s*;\s*prime_volume\s*=\s*([0-9]+)\s*$`)
	rePrimeTower      = regexp.MustCompile(`(?i)^\s*;\s*enable_prime_tower\s*=\s*([01])\s*$`)
)

// Directives holds the optional configuration values embedded as comment
// lines in a G-code file. Pointer fields are nil when the directive was
// absent or never parsed successfully; line indices are -1 in that case.
type Directives struct {
	Multiplier     *float64 // flush_multiplier value
	MultiplierLine int      // line index of the multiplier directive
	Matrix         []int    // flush_volumes_matrix, length MatrixValues
	MatrixLine     int      // line index of the matrix directive
	PrimeVolume    *int     // prime_volume value
	PrimeTower     bool     // enable_prime_tower, defaults to false
}

// HasMultiplier reports whether a well-formed flush_multiplier was found.
func (d *Directives) HasMultiplier() bool { return d.Multiplier != nil }

// HasMatrix reports whether a well-formed flush_volumes_matrix was found.
func (d *Directives) HasMatrix() bool { return d.Matrix != nil }

// ScanDirectives extracts the directive set from the ordered input lines.
//
// For flush_multiplier, flush_volumes_matrix, and prime_volume the first
// occurrence that parses successfully wins: a syntactic match whose payload
// fails to parse is skipped and scanning continues, so a later well-formed
// occurrence is still honored. For enable_prime_tower the last occurrence
// wins. The scan has no side effects.
func ScanDirectives(lines []string) Directives {
	d := Directives{MultiplierLine: -1, MatrixLine: -1}

	for i, ln := range lines {
		if d.Multiplier == nil {
			if m := reFlushMultiplier.FindStringSubmatch(ln); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					d.Multiplier = &v
					d.MultiplierLine = i
				}
			}
		}
		if d.Matrix == nil {
			if m := reFlushMatrix.FindStringSubmatch(ln); m != nil {
				if nums := parseMatrixPayload(m[1]); nums != nil {
					d.Matrix = nums
					d.MatrixLine = i
				}
			}
		}
		if d.PrimeVolume == nil {
			if m := rePrimeVolume.FindStringSubmatch(ln); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					d.PrimeVolume = &v
				}
			}
		}
		if m := rePrimeTower.FindStringSubmatch(ln); m != nil {
			d.PrimeTower = m[1] == "1"
		}
	}

	return d
}

// parseMatrixPayload splits a comma-separated matrix payload into integers.
// Returns nil unless the payload contains exactly MatrixValues non-negative
// integer tokens.
func parseMatrixPayload(payload string) []int {
	fields := strings.Split(payload, ",")
	nums := make([]int, 0, MatrixValues)
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil
		}
		nums = append(nums, v)
	}
	if len(nums) != MatrixValues {
		return nil
	}
	return nums
}
