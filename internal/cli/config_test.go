package cli

import (
	"os"
	"path/filepath"
	"testing"

	cfserrors "github.com/printforge/cfspost/pkg/errors"
	"github.com/printforge/cfspost/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("parses all fields", func(t *testing.T) {
		path := writeConfig(t, `
precut_mm = 60.5
precut_f = 500
zhop_mm = 0.8
zhop_f = 2400
travel_f = 12000
park = "110.5,110.5"
sentinels = true
`)

		cfg, err := loadFileConfig(path)
		if err != nil {
			t.Fatalf("loadFileConfig() error: %v", err)
		}
		if cfg.PrecutLength != 60.5 {
			t.Errorf("PrecutLength = %v, want 60.5", cfg.PrecutLength)
		}
		if cfg.PrecutFeed != 500 {
			t.Errorf("PrecutFeed = %v, want 500", cfg.PrecutFeed)
		}
		if cfg.Park != "110.5,110.5" {
			t.Errorf("Park = %q, want %q", cfg.Park, "110.5,110.5")
		}
		if cfg.Sentinels == nil || !*cfg.Sentinels {
			t.Error("Sentinels should be true")
		}
	})

	t.Run("explicit missing path is an error", func(t *testing.T) {
		_, err := loadFileConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil {
			t.Fatal("expected error for missing explicit config")
		}
		if code := cfserrors.GetCode(err); code != cfserrors.ErrCodeInvalidConfig {
			t.Errorf("error code = %q, want %q", code, cfserrors.ErrCodeInvalidConfig)
		}
	})

	t.Run("default path missing is not an error", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := loadFileConfig("")
		if err != nil {
			t.Fatalf("loadFileConfig() error: %v", err)
		}
		if cfg != nil {
			t.Errorf("expected nil config, got %+v", cfg)
		}
	})

	t.Run("invalid toml is an error", func(t *testing.T) {
		path := writeConfig(t, "precut_mm = [not toml")

		_, err := loadFileConfig(path)
		if err == nil {
			t.Fatal("expected error for invalid TOML")
		}
		if code := cfserrors.GetCode(err); code != cfserrors.ErrCodeInvalidConfig {
			t.Errorf("error code = %q, want %q", code, cfserrors.ErrCodeInvalidConfig)
		}
	})
}

func TestFileConfigApply(t *testing.T) {
	newOpts := func() pipeline.Options {
		return pipeline.Options{
			PrecutLength: pipeline.DefaultPrecutLength,
			PrecutFeed:   pipeline.DefaultPrecutFeed,
			ZHopHeight:   pipeline.DefaultZHopHeight,
			ZHopFeed:     pipeline.DefaultZHopFeed,
			TravelFeed:   pipeline.DefaultTravelFeed,
		}
	}

	t.Run("file values replace defaults", func(t *testing.T) {
		cmd := testCLI().processCommand()
		opts := newOpts()
		yes := true
		fc := &fileConfig{PrecutLength: 50, PrecutFeed: 450, Park: "100,100", Sentinels: &yes}

		if err := fc.apply(cmd, &opts); err != nil {
			t.Fatalf("apply() error: %v", err)
		}
		if opts.PrecutLength != 50 {
			t.Errorf("PrecutLength = %v, want 50", opts.PrecutLength)
		}
		if opts.PrecutFeed != 450 {
			t.Errorf("PrecutFeed = %v, want 450", opts.PrecutFeed)
		}
		if opts.Park == nil || opts.Park.X != 100 || opts.Park.Y != 100 {
			t.Errorf("Park = %+v, want (100, 100)", opts.Park)
		}
		if !opts.Sentinels {
			t.Error("Sentinels should be true")
		}
		if opts.ZHopHeight != pipeline.DefaultZHopHeight {
			t.Errorf("ZHopHeight = %v, should keep default", opts.ZHopHeight)
		}
	})

	t.Run("changed flags win over the file", func(t *testing.T) {
		cmd := testCLI().processCommand()
		if err := cmd.Flags().Set("precut-mm", "70"); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		opts := newOpts()
		opts.PrecutLength = 70
		fc := &fileConfig{PrecutLength: 50}

		if err := fc.apply(cmd, &opts); err != nil {
			t.Fatalf("apply() error: %v", err)
		}
		if opts.PrecutLength != 70 {
			t.Errorf("PrecutLength = %v, want flag value 70", opts.PrecutLength)
		}
	})

	t.Run("bad park in file", func(t *testing.T) {
		cmd := testCLI().processCommand()
		opts := newOpts()
		fc := &fileConfig{Park: "oops"}

		err := fc.apply(cmd, &opts)
		if err == nil {
			t.Fatal("expected error for bad park value")
		}
		if code := cfserrors.GetCode(err); code != cfserrors.ErrCodeInvalidPark {
			t.Errorf("error code = %q, want %q", code, cfserrors.ErrCodeInvalidPark)
		}
	})

	t.Run("nil config is a no-op", func(t *testing.T) {
		cmd := testCLI().processCommand()
		opts := newOpts()
		var fc *fileConfig

		if err := fc.apply(cmd, &opts); err != nil {
			t.Fatalf("apply() error: %v", err)
		}
		if opts.PrecutLength != pipeline.DefaultPrecutLength {
			t.Errorf("PrecutLength = %v, should keep default", opts.PrecutLength)
		}
	})
}
