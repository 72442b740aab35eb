// Package scenario parses scenario command flags and runs a Lua scenario
// against an in-memory table.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	platformcmd "github.com/louisbranch/duskwall/internal/platform/cmd"
	"github.com/louisbranch/duskwall/internal/platform/config"
	"github.com/louisbranch/duskwall/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"DUSKWALL_SCENARIO_FILE"`
	Assertions bool          `env:"DUSKWALL_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"DUSKWALL_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"DUSKWALL_SCENARIO_TIMEOUT" envDefault:"10s"`
	Seed       int64         `env:"DUSKWALL_SEED"             envDefault:"1"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup config.LookupFunc) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigWith(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for dice the scenario does not script")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceScenario, func(ctx context.Context) error {
		if err := scenario.RunFile(ctx, scenario.Config{
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     logger,
			Seed:       cfg.Seed,
		}, cfg.Scenario); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "scenario %s passed\n", cfg.Scenario)
		return err
	})
}
