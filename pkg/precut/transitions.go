package precut

import "github.com/printforge/cfspost/pkg/gcode"

// Transition is one genuine tool change observed in a stream.
type Transition struct {
	From int // previously active tool
	To   int // newly selected tool
	Line int // index of the select line in the input
}

// Transitions scans lines and returns the genuine tool changes in order,
// applying the same state rules as the injector: the first selection and
// same-tool reselections are not transitions.
func Transitions(lines []string) []Transition {
	var out []Transition
	current := noTool

	for i, ln := range lines {
		tool, ok := gcode.ParseToolSelect(ln)
		if !ok {
			continue
		}
		if current != noTool && current != tool {
			out = append(out, Transition{From: current, To: tool, Line: i})
		}
		current = tool
	}

	return out
}
