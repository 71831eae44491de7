package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// ToolCount is the number of addressable tools (T0..T3).
	ToolCount = 4

	// MatrixValues is the number of entries in the flush volume matrix,
	// one per ordered tool pair.
	MatrixValues = ToolCount * ToolCount
)

// reToolSelect matches a line that is exactly a tool-select command for
// T0..T3, optionally followed by a trailing comment.
var reToolSelect = regexp.MustCompile(`^T([0-3])\s*(?:;.*)?$`)

// ParseToolSelect reports whether line is a tool-select command and returns
// the selected tool index. Leading and trailing whitespace is ignored; lines
// that merely contain a T-word inside a longer command do not match.
func ParseToolSelect(line string) (int, bool) {
	m := reToolSelect.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, false
	}
	tool, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return tool, true
}

// findAxis extracts the first coordinate token for one axis from a line.
func findAxis(re *regexp.Regexp, line string) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitLines splits a G-code document into lines. Both LF and CRLF endings
// are accepted; a trailing newline does not produce a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
