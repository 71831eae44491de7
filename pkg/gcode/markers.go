package gcode

import "regexp"

// Point is an XY coordinate on the build plate, in millimeters.
type Point struct {
	X float64
	Y float64
}

// Region marker dialects. Slicers disagree on how the wipe/prime tower block
// is announced, so each direction carries a small ordered list of accepted
// patterns, all case-insensitive and line-anchored.
var (
	regionStarts = compileAll(
		`^\s*;+\s*WIPE_TOWER_START\b`,
		`^\s*;+\s*PRIME_TOWER_START\b`,
		`^\s*;+\s*CP\s+WIPE_TOWER\s*START\b`,
		`^\s*;+\s*TYPE:\s*WIPE\s*TOWER\b`,
	)
	regionEnds = compileAll(
		`^\s*;+\s*WIPE_TOWER_END\b`,
		`^\s*;+\s*PRIME_TOWER_END\b`,
		`^\s*;+\s*CP\s+WIPE_TOWER\s*END\b`,
		`^\s*;+\s*END\s*WIPE\s*TOWER\b`,
	)

	reAxisX = regexp.MustCompile(`\bX(-?\d+\.?\d*)`)
	reAxisY = regexp.MustCompile(`\bY(-?\d+\.?\d*)`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

func matchAny(res []*regexp.Regexp, line string) bool {
	for _, re := range res {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// bounds tracks a running XY bounding box. The two axes fold independently;
// a line may contribute X, Y, both, or neither.
type bounds struct {
	minX, maxX float64
	minY, maxY float64
	hasX, hasY bool
}

func (b *bounds) foldX(v float64) {
	if !b.hasX || v < b.minX {
		b.minX = v
	}
	if !b.hasX || v > b.maxX {
		b.maxX = v
	}
	b.hasX = true
}

func (b *bounds) foldY(v float64) {
	if !b.hasY || v < b.minY {
		b.minY = v
	}
	if !b.hasY || v > b.maxY {
		b.maxY = v
	}
	b.hasY = true
}

// TowerCenter scans lines for a wipe/prime tower region and returns the
// center of the XY bounding box of coordinate tokens found inside it.
//
// A single region is tracked: a recognized start marker while outside enters
// the region, a recognized end marker while inside exits it, and marker lines
// themselves are not scanned for coordinates. A region entered but never
// exited before the input ends still contributes its partial bounds. Returns
// ok=false if no region was entered or it contained no coordinates on both
// axes.
func TowerCenter(lines []string) (Point, bool) {
	var b bounds
	inside := false

	for _, ln := range lines {
		if !inside && matchAny(regionStarts, ln) {
			inside = true
			continue
		}
		if inside && matchAny(regionEnds, ln) {
			inside = false
			continue
		}
		if !inside {
			continue
		}
		if v, ok := findAxis(reAxisX, ln); ok {
			b.foldX(v)
		}
		if v, ok := findAxis(reAxisY, ln); ok {
			b.foldY(v)
		}
	}

	if !b.hasX || !b.hasY {
		return Point{}, false
	}
	return Point{
		X: (b.minX + b.maxX) / 2,
		Y: (b.minY + b.maxY) / 2,
	}, true
}
