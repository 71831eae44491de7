package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	cfserrors "github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/pipeline"
)

// fileConfig mirrors the optional TOML configuration file. Every field is a
// default for the corresponding flag; flags set on the command line win.
//
// Example:
//
//	precut_mm = 60.0
//	precut_f = 500
//	zhop_mm = 0.8
//	park = "110.5,110.5"
//	sentinels = true
type fileConfig struct {
	PrecutLength float64 `toml:"precut_mm"`
	PrecutFeed   int     `toml:"precut_f"`
	ZHopHeight   float64 `toml:"zhop_mm"`
	ZHopFeed     int     `toml:"zhop_f"`
	TravelFeed   int     `toml:"travel_f"`
	Park         string  `toml:"park"`
	Sentinels    *bool   `toml:"sentinels"`
}

// loadFileConfig reads the config file at path. When path is empty the
// default XDG location is tried and a missing file is not an error; an
// explicitly given path must exist and parse.
func loadFileConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return nil, nil
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}
	}

	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, cfserrors.Wrap(cfserrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	return &cfg, nil
}

// apply copies config file values into opts for every flag the user did not
// set on the command line. Returns an error only for an unparseable park
// override.
func (fc *fileConfig) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	if fc == nil {
		return nil
	}
	set := cmd.Flags().Changed

	if fc.PrecutLength != 0 && !set("precut-mm") {
		opts.PrecutLength = fc.PrecutLength
	}
	if fc.PrecutFeed != 0 && !set("precut-f") {
		opts.PrecutFeed = fc.PrecutFeed
	}
	if fc.ZHopHeight != 0 && !set("zhop-mm") {
		opts.ZHopHeight = fc.ZHopHeight
	}
	if fc.ZHopFeed != 0 && !set("zhop-f") {
		opts.ZHopFeed = fc.ZHopFeed
	}
	if fc.TravelFeed != 0 && !set("travel-f") {
		opts.TravelFeed = fc.TravelFeed
	}
	if fc.Park != "" && !set("park") {
		park, err := pipeline.ParsePark(fc.Park)
		if err != nil {
			return err
		}
		opts.Park = park
	}
	if fc.Sentinels != nil && !set("sentinels") {
		opts.Sentinels = *fc.Sentinels
	}
	return nil
}
