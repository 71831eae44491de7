package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfserrors "github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/gcode"
	cfsio "github.com/printforge/cfspost/pkg/io"
	"github.com/printforge/cfspost/pkg/precut"
	"github.com/printforge/cfspost/pkg/render/transitions"
)

// transitionsCommand creates the transition-graph diagnostic command.
func (c *CLI) transitionsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "transitions <input.gcode>",
		Short: "Render the tool-transition graph of a file",
		Long: `Show which tool changes a file performs, as a Graphviz graph.

Each node is a tool, each edge a genuine tool change labeled with how often
it occurs. These edges are exactly the places a pre-cut sequence would be
injected. Without --output the DOT source goes to stdout; with an .svg or
.png output path the graph is rendered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransitions(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file: .dot, .svg, or .png (default: DOT on stdout)")

	return cmd
}

// runTransitions scans the file and writes the graph in the requested format.
func (c *CLI) runTransitions(ctx context.Context, input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return cfserrors.Wrap(cfserrors.ErrCodeFileNotFound, err, "read %s", input)
	}

	ts := precut.Transitions(gcode.SplitLines(string(data)))
	dot := transitions.ToDOT(ts)

	if output == "" {
		fmt.Print(dot)
		return nil
	}

	format, err := transitions.FormatFromPath(output)
	if err != nil {
		return cfserrors.Wrap(cfserrors.ErrCodeUnsupported, err, "output format")
	}

	var rendered []byte
	switch format {
	case "dot":
		rendered = []byte(dot)
	case "svg", "png":
		sp := startSpinner(fmt.Sprintf("Rendering %s...", format))
		if format == "svg" {
			rendered, err = transitions.RenderSVG(ctx, dot)
		} else {
			rendered, err = transitions.RenderPNG(ctx, dot)
		}
		sp.stop()
		if err != nil {
			return cfserrors.Wrap(cfserrors.ErrCodeInternal, err, "render graph")
		}
	}

	if err := cfsio.WriteFileAtomic(output, rendered, 0o644); err != nil {
		return cfserrors.Wrap(cfserrors.ErrCodeWriteFailed, err, "write %s", output)
	}

	printSuccess("rendered transition graph (%d tool change(s))", len(ts))
	printFile(output)
	return nil
}
