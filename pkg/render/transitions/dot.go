// Package transitions renders the tool-transition graph of a G-code file as
// a Graphviz diagram. Each node is a tool, each edge a genuine tool change,
// labeled with how often it occurs. This is a diagnostic view for checking
// where pre-cut sequences will be injected.
package transitions

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/printforge/cfspost/pkg/precut"
)

// edge is one aggregated from->to transition.
type edge struct {
	from, to int
	count    int
}

// ToDOT converts a transition list to Graphviz DOT format. The resulting
// string can be rendered with [RenderSVG] or [RenderPNG]. Edges are ordered
// by (from, to) for stable output.
func ToDOT(ts []precut.Transition) string {
	counts := map[[2]int]int{}
	tools := map[int]bool{}
	for _, t := range ts {
		counts[[2]int{t.From, t.To}]++
		tools[t.From] = true
		tools[t.To] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph transitions {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("\n")

	for _, tool := range sortedTools(tools) {
		fmt.Fprintf(&buf, "  %q;\n", toolName(tool))
	}

	buf.WriteString("\n")
	for _, e := range sortedEdges(counts) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			toolName(e.from), toolName(e.to), fmt.Sprintf("x%d", e.count))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func toolName(tool int) string {
	return fmt.Sprintf("T%d", tool)
}

func sortedTools(tools map[int]bool) []int {
	out := make([]int, 0, len(tools))
	for t := range tools {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func sortedEdges(counts map[[2]int]int) []edge {
	out := make([]edge, 0, len(counts))
	for k, n := range counts {
		out = append(out, edge{from: k[0], to: k[1], count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].from != out[j].from {
			return out[i].from < out[j].from
		}
		return out[i].to < out[j].to
	})
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatFromPath infers the render format from an output path extension.
// Supported: .dot, .svg, .png.
func FormatFromPath(path string) (string, error) {
	switch {
	case strings.HasSuffix(path, ".dot"):
		return "dot", nil
	case strings.HasSuffix(path, ".svg"):
		return "svg", nil
	case strings.HasSuffix(path, ".png"):
		return "png", nil
	}
	return "", fmt.Errorf("unsupported output extension in %q (want .dot, .svg, or .png)", path)
}
