// Package precut implements the tool-change injection pass: a single-state
// machine over the input lines that emits a safety retract sequence
// immediately before every genuine tool transition.
//
// The state is the currently selected tool. The first tool selection and
// reselection of the active tool are not transitions and inject nothing.
// Non-select lines pass through unmodified and are never reordered.
package precut

import (
	"fmt"

	"github.com/printforge/cfspost/pkg/gcode"
)

// noTool is the state before the first tool-select command is seen.
const noTool = -1

// Config holds the injection parameters.
type Config struct {
	Length     float64      // pre-cut retract length (mm)
	Feedrate   int          // pre-cut retract feedrate
	ZHop       float64      // depart Z-hop height before parking (mm)
	ZHopFeed   int          // feedrate for the depart Z-hop
	TravelFeed int          // feedrate for the XY travel to park
	Park       *gcode.Point // park position; nil skips the travel move
	Sentinels  bool         // emit M118 marker lines around transitions
}

// Injector runs the tool-change injection pass.
type Injector struct {
	cfg Config
}

// New creates an Injector with the given configuration.
func New(cfg Config) *Injector {
	return &Injector{cfg: cfg}
}

// Apply makes one forward pass over lines and returns the output lines plus
// the number of genuine transitions that received an injection.
func (j *Injector) Apply(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	current := noTool
	transitions := 0

	for _, ln := range lines {
		next, emitted := j.step(current, ln)
		if next != current && current != noTool {
			transitions++
		}
		out = append(out, emitted...)
		current = next
	}

	return out, transitions
}

// step is the per-line reducer: given the current tool state and one input
// line, it returns the new state and the lines to emit. It is a pure
// function of (state, line); all configuration is fixed at construction.
func (j *Injector) step(current int, line string) (int, []string) {
	tool, ok := gcode.ParseToolSelect(line)
	if !ok {
		return current, []string{line}
	}
	if current == noTool || current == tool {
		// First selection or reselection: not a transition.
		return tool, []string{line}
	}

	out := make([]string, 0, 16)
	out = j.sentinel(out, fmt.Sprintf("[INJECT] TRANSITION T%d -> T%d; Start", current, tool))
	out = append(out, j.precut(tool)...)
	out = append(out, fmt.Sprintf("; [INJECT] selecting tool T%d", tool))
	out = append(out, line)
	out = j.sentinel(out, fmt.Sprintf("[INJECT] TRANSITION T%d -> T%d; End", current, tool))
	return tool, out
}

// precut builds the retract/park/retract block emitted before a transition.
// The Z-hop is wrapped in G91/G90 so it is relative regardless of the
// stream's current positioning mode.
func (j *Injector) precut(next int) []string {
	out := make([]string, 0, 12)
	out = append(out,
		fmt.Sprintf("; [INJECT] depart-hop before park: Z+%.2f", j.cfg.ZHop),
		"G91",
		fmt.Sprintf("G1 Z%.2f F%d", j.cfg.ZHop, j.cfg.ZHopFeed),
		"G90",
	)
	if p := j.cfg.Park; p != nil {
		out = append(out, fmt.Sprintf("; [INJECT] park before pre-cut: X%.3f Y%.3f", p.X, p.Y))
		out = j.sentinel(out, fmt.Sprintf("[INJECT] PARK X%.1f Y%.1f", p.X, p.Y))
		out = append(out, fmt.Sprintf("G0 X%.3f Y%.3f F%d", p.X, p.Y, j.cfg.TravelFeed))
	}
	out = append(out, fmt.Sprintf("; [INJECT] pre-cut retract before T%d (%.1fmm @ F%d)", next, j.cfg.Length, j.cfg.Feedrate))
	out = j.sentinel(out, fmt.Sprintf("[INJECT] PRECUT T%d E-%d; Start", next, int(j.cfg.Length)))
	out = append(out, fmt.Sprintf("G1 E-%.1f F%d", j.cfg.Length, j.cfg.Feedrate))
	out = j.sentinel(out, fmt.Sprintf("[INJECT] PRECUT T%d E-%d; End", next, int(j.cfg.Length)))
	return out
}

// sentinel appends an M118 marker line when sentinel emission is enabled.
func (j *Injector) sentinel(out []string, msg string) []string {
	if !j.cfg.Sentinels {
		return out
	}
	return append(out, "M118 "+msg)
}
