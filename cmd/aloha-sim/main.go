// Command aloha-sim runs a single (config, seed) discrete-event MAC
// simulation and writes its event log as a CSV file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	aloha "github.com/nicolopomini/aloha-sim/src"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath = pflag.StringP("config", "c", "", "Topology/run configuration file (YAML).")
	var seedOverride = pflag.Int64P("seed", "s", 0, "Override the config's seed.")
	var seedSet = false
	var outDir = pflag.StringP("out-dir", "o", ".", "Directory to write the output_<interarrival>_<seed>.csv log into.")
	pflag.Parse()
	pflag.Visit(func(f *pflag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	diag := aloha.NewDiag(os.Stderr)

	if *configPath == "" {
		diag.ConfigError(fmt.Errorf("--config is required"))
		return 2
	}

	f, err := os.Open(*configPath)
	if err != nil {
		diag.ConfigError(err)
		return 2
	}
	defer f.Close()

	cfg, err := aloha.LoadConfig(f)
	if err != nil {
		diag.ConfigError(err)
		return 2
	}
	if seedSet {
		cfg.Seed = *seedOverride
	}

	outPath := filepath.Join(*outDir, fmt.Sprintf("output_%s_%d.csv", cfg.InterarrivalLabel(), cfg.Seed))
	out, err := os.Create(outPath)
	if err != nil {
		diag.ConfigError(err)
		return 2
	}
	defer out.Close()

	logger, err := aloha.NewEventLogger(out)
	if err != nil {
		diag.ConfigError(err)
		return 2
	}

	sim, err := cfg.Build(logger)
	if err != nil {
		diag.ConfigError(err)
		return 2
	}

	diag.RunStarted(cfg.Seed, cfg.Horizon, time.Now())

	if err := sim.Run(cfg.Horizon); err != nil {
		if iv, ok := err.(*aloha.InvariantViolation); ok {
			diag.InvariantViolation(iv)
		} else {
			diag.ConfigError(err)
		}
		return 1
	}

	diag.RunFinished(sim.Now(), "horizon reached or queue drained")
	return 0
}
