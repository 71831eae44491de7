// Package pipeline wires the cfspost transformation stages into a single
// runner: directive scanning, tower-center detection, matrix rescaling,
// pre-cut injection, provenance reporting, and atomic persistence.
//
// The pipeline is a pure function of (input lines, options): nothing is
// retained between invocations, so concurrent runs over different files are
// safe without coordination.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Input: "in.gcode", Output: "out.gcode"}
//	if err := opts.Validate(); err != nil {
//	    return err
//	}
//	result, err := runner.Process(ctx, opts)
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/gcode"
	"github.com/printforge/cfspost/pkg/report"
)

// Default injection parameters. These are the values the pipeline falls back
// to for any option left at zero.
const (
	// DefaultPrecutLength is the pre-cut retract length in millimeters.
	DefaultPrecutLength = 80.0

	// DefaultPrecutFeed is the pre-cut retract feedrate.
	DefaultPrecutFeed = 600

	// DefaultZHopHeight is the depart Z-hop height before parking (mm).
	DefaultZHopHeight = 0.6

	// DefaultZHopFeed is the feedrate for the depart Z-hop.
	DefaultZHopFeed = 3000

	// DefaultTravelFeed is the feedrate for the XY travel to park.
	DefaultTravelFeed = 18000
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input is the path of the G-code file to read (Process only).
	Input string
	// Output is the destination path (Process only).
	Output string

	PrecutLength float64 // pre-cut retract length (mm)
	PrecutFeed   int     // pre-cut retract feedrate
	ZHopHeight   float64 // depart Z-hop height (mm)
	ZHopFeed     int     // depart Z-hop feedrate
	TravelFeed   int     // XY travel feedrate to park

	// Park overrides tower-center autodetection when non-nil.
	Park *gcode.Point

	// Sentinels enables M118 marker emission around transitions.
	Sentinels bool

	// validated tracks whether Validate has been called.
	validated bool
}

// SetDefaults fills zero-valued injection parameters with the defaults.
func (o *Options) SetDefaults() {
	if o.PrecutLength == 0 {
		o.PrecutLength = DefaultPrecutLength
	}
	if o.PrecutFeed == 0 {
		o.PrecutFeed = DefaultPrecutFeed
	}
	if o.ZHopHeight == 0 {
		o.ZHopHeight = DefaultZHopHeight
	}
	if o.ZHopFeed == 0 {
		o.ZHopFeed = DefaultZHopFeed
	}
	if o.TravelFeed == 0 {
		o.TravelFeed = DefaultTravelFeed
	}
}

// Validate applies defaults and checks that all injection parameters are
// positive. It is idempotent.
func (o *Options) Validate() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if o.PrecutLength <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pre-cut length must be positive, got %v", o.PrecutLength)
	}
	if o.PrecutFeed <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pre-cut feedrate must be positive, got %d", o.PrecutFeed)
	}
	if o.ZHopHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "z-hop height must be positive, got %v", o.ZHopHeight)
	}
	if o.ZHopFeed <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "z-hop feedrate must be positive, got %d", o.ZHopFeed)
	}
	if o.TravelFeed <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "travel feedrate must be positive, got %d", o.TravelFeed)
	}

	o.validated = true
	return nil
}

// ParsePark parses an explicit "X,Y" park override. An empty string means no
// override and returns (nil, nil).
func ParsePark(s string) (*gcode.Point, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidPark, `park must be "X,Y", got %q`, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPark, err, "invalid park X in %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPark, err, "invalid park Y in %q", s)
	}
	return &gcode.Point{X: x, Y: y}, nil
}

// Result contains the outputs of one pipeline run.
type Result struct {
	// Header is the provenance header block, one comment line per entry.
	Header []string

	// Body is the transformed line stream.
	Body []string

	// Facts is everything the run detected and applied.
	Facts report.Facts

	// Stats contains size and timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LinesIn     int
	LinesOut    int
	Transitions int
	Rewritten   bool
	Elapsed     time.Duration
}

// Text renders the final output document: header, blank separator, body,
// newline-terminated.
func (r *Result) Text() string {
	var b strings.Builder
	for _, ln := range r.Header {
		b.WriteString(ln)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, ln := range r.Body {
		b.WriteString(ln)
		b.WriteString("\n")
	}
	return b.String()
}
