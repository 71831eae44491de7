package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	cfserrors "github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/pipeline"
)

// outputSuffix is appended to the input stem to form the batch output name.
const outputSuffix = "_scaled_precut.gcode"

// batchCommand creates the multi-file wrapper. Each input is written next to
// itself under a derived name so the originals stay untouched, the way a
// "send to" shell integration expects.
func (c *CLI) batchCommand() *cobra.Command {
	opts := processOpts{
		precutLength: pipeline.DefaultPrecutLength,
		precutFeed:   pipeline.DefaultPrecutFeed,
		zhopHeight:   pipeline.DefaultZHopHeight,
		zhopFeed:     pipeline.DefaultZHopFeed,
		travelFeed:   pipeline.DefaultTravelFeed,
		sentinels:    true,
	}
	var (
		all     bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file.gcode ... | directory>",
		Short: "Process multiple G-code files in place",
		Long: `Process several files at once. Each output is written alongside its input
with a _scaled_precut.gcode suffix. A single directory argument opens an
interactive picker over its .gcode files (or processes all of them with
--all). Failures are reported and skipped, the remaining files still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.resolveOptions(cmd, &opts)
			if err != nil {
				return err
			}

			inputs, err := c.resolveInputs(args, all)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				printWarning("nothing to process")
				return nil
			}
			return c.runBatch(cmd.Context(), popts, inputs, summary)
		},
	}

	cmd.Flags().Float64Var(&opts.precutLength, "precut-mm", opts.precutLength, "pre-cut retract amount (mm)")
	cmd.Flags().IntVar(&opts.precutFeed, "precut-f", opts.precutFeed, "pre-cut retract feedrate")
	cmd.Flags().Float64Var(&opts.zhopHeight, "zhop-mm", opts.zhopHeight, "depart Z-hop before moving to park (mm)")
	cmd.Flags().IntVar(&opts.zhopFeed, "zhop-f", opts.zhopFeed, "feedrate for depart Z-hop")
	cmd.Flags().IntVar(&opts.travelFeed, "travel-f", opts.travelFeed, "feedrate for XY travel to park")
	cmd.Flags().StringVar(&opts.park, "park", "", `override park "X,Y" (else autodetect tower center)`)
	cmd.Flags().BoolVar(&opts.sentinels, "sentinels", opts.sentinels, "emit M118 markers around transitions and pre-cuts")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cfspost/config.toml)")
	cmd.Flags().BoolVar(&summary, "summary", true, "echo each file's header summary to stderr")
	cmd.Flags().BoolVar(&all, "all", false, "process every .gcode file in a directory argument without asking")

	return cmd
}

// resolveInputs expands the argument list into concrete file paths. A single
// directory argument is expanded to its .gcode files, interactively unless
// all is set.
func (c *CLI) resolveInputs(args []string, all bool) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err == nil && info.IsDir() {
			return c.collectFromDir(args[0], all)
		}
	}
	return args, nil
}

// collectFromDir lists the .gcode files in dir and either returns them all or
// lets the user pick.
func (c *CLI) collectFromDir(dir string, all bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cfserrors.Wrap(cfserrors.ErrCodeInvalidPath, err, "read directory %s", dir)
	}

	var files []fileEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gcode") {
			continue
		}
		// Skip our own previous outputs so re-running a directory does not
		// process processed files.
		if strings.HasSuffix(name, outputSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{Name: name, Path: filepath.Join(dir, name), Size: info.Size()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	if len(files) == 0 {
		return nil, nil
	}

	if all {
		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}
		return paths, nil
	}

	model, err := tea.NewProgram(NewFileListModel(files)).Run()
	if err != nil {
		return nil, cfserrors.Wrap(cfserrors.ErrCodeInternal, err, "file picker")
	}
	final, ok := model.(FileListModel)
	if !ok {
		return nil, cfserrors.New(cfserrors.ErrCodeInternal, "unexpected picker model type")
	}
	return final.SelectedPaths(), nil
}

// runBatch processes every input, continuing past per-file failures.
func (c *CLI) runBatch(ctx context.Context, popts pipeline.Options, inputs []string, summary bool) error {
	runner := pipeline.NewRunner(c.Logger)
	prog := newProgress(c.Logger)

	var failed int
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(input); err != nil {
			printWarning("skipping %s: not found", input)
			failed++
			continue
		}

		fileOpts := popts
		fileOpts.Input = input
		fileOpts.Output = batchOutputPath(input)

		result, err := runner.Process(ctx, fileOpts)
		if err != nil {
			printError("%s: %s", input, cfserrors.UserMessage(err))
			failed++
			continue
		}

		if summary {
			for _, ln := range result.Header {
				fmt.Fprintln(os.Stderr, ln)
			}
		}

		printSuccess("processed %s", input)
		printFile(fileOpts.Output)
		printDetail("%d tool change(s) received a pre-cut sequence", result.Stats.Transitions)
	}

	prog.done("batch finished")
	if failed > 0 {
		return cfserrors.New(cfserrors.ErrCodeInternal, "%d of %d file(s) failed", failed, len(inputs))
	}
	printInfo("%d file(s) processed", len(inputs))
	return nil
}

// batchOutputPath derives the sibling output name for input. A trailing
// slicer post-processing suffix (.gcode.pp) or plain .gcode is replaced;
// anything else gets the suffix appended.
func batchOutputPath(input string) string {
	lower := strings.ToLower(input)
	switch {
	case strings.HasSuffix(lower, ".gcode.pp"):
		return input[:len(input)-len(".gcode.pp")] + outputSuffix
	case strings.HasSuffix(lower, ".gcode"):
		return input[:len(input)-len(".gcode")] + outputSuffix
	default:
		return input + outputSuffix
	}
}
