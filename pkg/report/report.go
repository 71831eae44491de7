// Package report assembles the provenance header prepended to processed
// G-code. The header records what the pipeline detected and applied so the
// output file is self-describing; it is informational, not an error channel.
package report

import (
	"fmt"
	"time"

	"github.com/printforge/cfspost/pkg/flush"
	"github.com/printforge/cfspost/pkg/gcode"
)

// timestampLayout matches ISO-8601 with second precision.
const timestampLayout = "2006-01-02T15:04:05"

// Facts collects everything the pipeline learned about one input file.
type Facts struct {
	Timestamp time.Time

	MultiplierFound bool
	Multiplier      float64 // valid when MultiplierFound
	MatrixFound     bool
	Original        []int // valid when MatrixFound
	Scaled          []int // valid when Rewritten
	Rewritten       bool  // matrix line was rewritten (both directives found)

	PrimeVolume *int
	PrimeTower  bool

	Park           *gcode.Point
	ParkOverridden bool

	PrecutLength float64
	PrecutFeed   int
}

// Build produces the header comment lines, in output order.
func Build(f Facts) []string {
	hdr := []string{
		fmt.Sprintf("; Post-processed by cfspost on %s", f.Timestamp.Format(timestampLayout)),
	}

	if f.Rewritten {
		hdr = append(hdr, fmt.Sprintf("; applied_flush_multiplier: %.6f", f.Multiplier))
	}

	switch {
	case f.PrimeTower && f.PrimeVolume != nil:
		hdr = append(hdr, fmt.Sprintf("; prime_volume subtracted: %d mm^3 (prime tower enabled)", *f.PrimeVolume))
	case f.PrimeVolume != nil:
		hdr = append(hdr, fmt.Sprintf("; prime_volume found: %d mm^3 (but prime tower disabled)", *f.PrimeVolume))
	}

	if f.Rewritten {
		hdr = append(hdr, "; original flush_volumes_matrix (mm^3):")
		for _, row := range flush.Rows(f.Original) {
			hdr = append(hdr, ";   "+row)
		}
		hdr = append(hdr, "; scaled flush_volumes_matrix (mm^3) written:")
		for _, row := range flush.Rows(f.Scaled) {
			hdr = append(hdr, ";   "+row)
		}
	} else {
		switch {
		case !f.MultiplierFound && !f.MatrixFound:
			hdr = append(hdr, "; no flush directives found -> only injected pre-cut retracts")
		case !f.MultiplierFound:
			hdr = append(hdr, "; flush_multiplier not found -> matrix left unchanged; injected pre-cut retracts")
		default:
			hdr = append(hdr, "; flush_volumes_matrix not found -> nothing to scale; injected pre-cut retracts")
		}
	}

	hdr = append(hdr, fmt.Sprintf("; pre-cut: %.1fmm @ F%d", f.PrecutLength, f.PrecutFeed))

	switch {
	case f.Park != nil && f.ParkOverridden:
		hdr = append(hdr, fmt.Sprintf("; park XY: X%.3f Y%.3f (override)", f.Park.X, f.Park.Y))
	case f.Park != nil:
		hdr = append(hdr, fmt.Sprintf("; park XY: X%.3f Y%.3f (tower-center autodetect)", f.Park.X, f.Park.Y))
	default:
		hdr = append(hdr, "; park XY: not found (no tower detected and no override)")
	}

	return hdr
}
