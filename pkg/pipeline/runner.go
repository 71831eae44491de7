package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/flush"
	"github.com/printforge/cfspost/pkg/gcode"
	pkgio "github.com/printforge/cfspost/pkg/io"
	"github.com/printforge/cfspost/pkg/precut"
	"github.com/printforge/cfspost/pkg/report"
)

// Runner executes the transformation pipeline.
type Runner struct {
	logger *log.Logger
	now    func() time.Time
}

// NewRunner creates a pipeline runner. A nil logger falls back to the
// package default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{logger: logger, now: time.Now}
}

// Execute runs the full in-memory pipeline over lines and returns the
// transformed result. It performs no file I/O and does not mutate lines.
//
// Stages, in order: directive scan, park resolution (override wins over
// tower-center autodetection), matrix rewrite (iff both multiplier and
// matrix were found), multiplier guard (any located flush_multiplier line is
// reset to 1.0 so a downstream consumer cannot re-apply it), pre-cut
// injection, and header construction.
func (r *Runner) Execute(lines []string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := r.now()

	d := gcode.ScanDirectives(lines)
	r.logger.Debug("scanned directives",
		"multiplier", d.HasMultiplier(),
		"matrix", d.HasMatrix(),
		"prime_volume", d.PrimeVolume != nil,
		"prime_tower", d.PrimeTower)

	park := opts.Park
	overridden := park != nil
	if park == nil {
		if center, ok := gcode.TowerCenter(lines); ok {
			park = &center
			r.logger.Debugf("tower center autodetected at X%.3f Y%.3f", center.X, center.Y)
		} else {
			r.logger.Debug("no tower detected and no park override; skipping park travel")
		}
	}

	body := make([]string, len(lines))
	copy(body, lines)

	facts := report.Facts{
		Timestamp:       start,
		MultiplierFound: d.HasMultiplier(),
		MatrixFound:     d.HasMatrix(),
		PrimeVolume:     d.PrimeVolume,
		PrimeTower:      d.PrimeTower,
		Park:            park,
		ParkOverridden:  overridden,
		PrecutLength:    opts.PrecutLength,
		PrecutFeed:      opts.PrecutFeed,
	}

	if d.HasMatrix() && d.HasMultiplier() {
		scaled := flush.Transform(d.Matrix, *d.Multiplier, d.PrimeTower, d.PrimeVolume)
		body[d.MatrixLine] = "; flush_volumes_matrix = " + flush.Payload(scaled)
		facts.Multiplier = *d.Multiplier
		facts.Original = d.Matrix
		facts.Scaled = scaled
		facts.Rewritten = true
		r.logger.Debugf("matrix rescaled with multiplier %.4f", *d.Multiplier)
	}

	// Guard against double scaling: the applied multiplier lives only in the
	// header from here on.
	if d.MultiplierLine >= 0 {
		body[d.MultiplierLine] = "; flush_multiplier = 1.0"
	}

	injector := precut.New(precut.Config{
		Length:     opts.PrecutLength,
		Feedrate:   opts.PrecutFeed,
		ZHop:       opts.ZHopHeight,
		ZHopFeed:   opts.ZHopFeed,
		TravelFeed: opts.TravelFeed,
		Park:       park,
		Sentinels:  opts.Sentinels,
	})
	body, transitions := injector.Apply(body)
	r.logger.Debugf("injected %d pre-cut sequence(s)", transitions)

	return &Result{
		Header: report.Build(facts),
		Body:   body,
		Facts:  facts,
		Stats: Stats{
			LinesIn:     len(lines),
			LinesOut:    len(body),
			Transitions: transitions,
			Rewritten:   facts.Rewritten,
			Elapsed:     time.Since(start),
		},
	}, nil
}

// Process reads opts.Input, runs Execute, and atomically writes the result
// to opts.Output. Input and output failures are fatal; on an output failure
// the destination keeps its prior content.
func (r *Runner) Process(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Input == "" || opts.Output == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "both input and output paths are required")
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
	}

	result, err := r.Execute(gcode.SplitLines(string(data)), opts)
	if err != nil {
		return nil, err
	}

	if err := pkgio.WriteFileAtomic(opts.Output, []byte(result.Text()), 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", opts.Output)
	}

	r.logger.Infof("%s -> %s (%s)", opts.Input, opts.Output, summarize(result))
	return result, nil
}

// summarize renders a one-line stats summary for logging.
func summarize(res *Result) string {
	matrix := "matrix unchanged"
	if res.Stats.Rewritten {
		matrix = "matrix rescaled"
	}
	return fmt.Sprintf("%d transition(s), %s", res.Stats.Transitions, matrix)
}
