package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/printforge/cfspost/pkg/pipeline"
)

// processOpts holds the command-line flags for the process command.
type processOpts struct {
	precutLength float64 // pre-cut retract length (mm)
	precutFeed   int     // pre-cut retract feedrate
	zhopHeight   float64 // depart Z-hop before moving to park (mm)
	zhopFeed     int     // feedrate for the depart Z-hop
	travelFeed   int     // feedrate for the XY travel to park
	park         string  // explicit park "X,Y" (else autodetect tower center)
	sentinels    bool    // emit M118 markers around transitions and pre-cuts
	summary      bool    // echo the header summary to stderr
	configPath   string  // config file path (else XDG default)
}

// processCommand creates the core command: rewrite the flush matrix by the
// in-file multiplier and inject pre-cut retracts before tool changes.
func (c *CLI) processCommand() *cobra.Command {
	opts := processOpts{
		precutLength: pipeline.DefaultPrecutLength,
		precutFeed:   pipeline.DefaultPrecutFeed,
		zhopHeight:   pipeline.DefaultZHopHeight,
		zhopFeed:     pipeline.DefaultZHopFeed,
		travelFeed:   pipeline.DefaultTravelFeed,
	}

	cmd := &cobra.Command{
		Use:   "process <input.gcode> <output.gcode>",
		Short: "Rescale flush volumes and inject pre-cut retracts",
		Long: `Process a single G-code file.

If the file carries flush_multiplier and flush_volumes_matrix comments, the
matrix is rescaled (and optionally corrected by prime_volume) and rewritten
in place; the multiplier line is reset to 1.0 so firmware cannot apply it a
second time. Pre-cut retract sequences are always injected before genuine
tool changes, parking at the wipe-tower center when one is detected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.resolveOptions(cmd, &opts)
			if err != nil {
				return err
			}
			popts.Input = args[0]
			popts.Output = args[1]
			return c.runProcess(cmd.Context(), popts, opts.summary)
		},
	}

	cmd.Flags().Float64Var(&opts.precutLength, "precut-mm", opts.precutLength, "pre-cut retract amount (mm)")
	cmd.Flags().IntVar(&opts.precutFeed, "precut-f", opts.precutFeed, "pre-cut retract feedrate")
	cmd.Flags().Float64Var(&opts.zhopHeight, "zhop-mm", opts.zhopHeight, "depart Z-hop before moving to park (mm)")
	cmd.Flags().IntVar(&opts.zhopFeed, "zhop-f", opts.zhopFeed, "feedrate for depart Z-hop")
	cmd.Flags().IntVar(&opts.travelFeed, "travel-f", opts.travelFeed, "feedrate for XY travel to park")
	cmd.Flags().StringVar(&opts.park, "park", "", `override park "X,Y" (else autodetect tower center)`)
	cmd.Flags().BoolVar(&opts.sentinels, "sentinels", false, "emit M118 markers around transitions and pre-cuts")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "echo the header summary to stderr")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cfspost/config.toml)")

	return cmd
}

// resolveOptions merges built-in defaults, the config file, and command-line
// flags into pipeline options. Flags win over the file, the file wins over
// defaults.
func (c *CLI) resolveOptions(cmd *cobra.Command, opts *processOpts) (pipeline.Options, error) {
	park, err := pipeline.ParsePark(opts.park)
	if err != nil {
		return pipeline.Options{}, err
	}

	popts := pipeline.Options{
		PrecutLength: opts.precutLength,
		PrecutFeed:   opts.precutFeed,
		ZHopHeight:   opts.zhopHeight,
		ZHopFeed:     opts.zhopFeed,
		TravelFeed:   opts.travelFeed,
		Park:         park,
		Sentinels:    opts.sentinels,
	}

	cfg, err := loadFileConfig(opts.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	if err := cfg.apply(cmd, &popts); err != nil {
		return pipeline.Options{}, err
	}

	if err := popts.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	return popts, nil
}

// runProcess executes the pipeline for one file and prints the outcome.
func (c *CLI) runProcess(ctx context.Context, popts pipeline.Options, summary bool) error {
	runner := pipeline.NewRunner(c.Logger)
	result, err := runner.Process(ctx, popts)
	if err != nil {
		return err
	}

	if summary {
		for _, ln := range result.Header {
			fmt.Fprintln(os.Stderr, ln)
		}
	}

	printSuccess("processed %s", popts.Input)
	printFile(popts.Output)
	printDetail("%d tool change(s) received a pre-cut sequence", result.Stats.Transitions)
	if result.Stats.Rewritten {
		printDetail("flush matrix rescaled by %.4f", result.Facts.Multiplier)
	} else {
		printDetail("flush matrix left unchanged")
	}
	return nil
}
