// Command fanoutcheck fails the pipeline when too many files depend on
// more entities than the fan-out threshold allows.
//
// Usage:
//
//	fanoutcheck [flags] file_deps.csv metrics.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/cigate/internal/app"
)

func main() {
	var (
		cfg        app.Config
		configPath string
		envFile    string
		version    bool
	)

	fs := flag.NewFlagSet("fanoutcheck", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: fanoutcheck [flags] DEPS.csv METRICS.csv")
		fs.PrintDefaults()
	}
	fs.Float64Var(&cfg.MaxFanOut, "max", 0, "First fan-out value that violates the gate (default 16)")
	fs.Float64Var(&cfg.FailRatio, "fail.ratio", 0, "Share of files allowed over the threshold (default 0.03)")
	fs.StringVar(&configPath, "config", os.Getenv("CIGATE_CONFIG"), "Path to YAML, JSON or TOML config file")
	fs.StringVar(&envFile, "env", ".env", "Dotenv file loaded before reading the environment")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(app.ExitInvalid)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "fail.ratio" {
			cfg.FailRatioSet = true
		}
	})
	if version {
		fmt.Println(app.VersionString("fanoutcheck"))
		return
	}

	args := fs.Args()
	if len(args) != 2 {
		fs.Usage()
		os.Exit(app.ExitInvalid)
	}
	cfg.DepsPath, cfg.MetricsPath = args[0], args[1]

	app.ConfigureLogging(cfg.Verbose)
	if err := app.Resolve(&cfg, configPath, envFile); err != nil {
		log.Error().Err(err).Msg("configuration")
		os.Exit(app.ExitCode(err))
	}
	app.ConfigureLogging(cfg.Verbose)

	if _, err := app.RunFanOut(cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("fan-out check failed")
		os.Exit(app.ExitCode(err))
	}
}
