// Command cyclecheck fails the pipeline when too many classes or files take
// part in two-way dependencies.
//
// Usage:
//
//	cyclecheck [flags] file_deps_matrix.csv true|false metrics.csv
//
// The second argument selects whether the allowance is computed from the
// number of classes (true) or files (false) in the metrics export.
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

	fs := flag.NewFlagSet("cyclecheck", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: cyclecheck [flags] MATRIX.csv true|false METRICS.csv")
		fs.PrintDefaults()
	}
	fs.Float64Var(&cfg.FailRatio, "fail.ratio", 0, "Share of entities allowed in cycles (default 0.03)")
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
		fmt.Println(app.VersionString("cyclecheck"))
		return
	}

	args := fs.Args()
	if len(args) != 3 {
		fs.Usage()
		os.Exit(app.ExitInvalid)
	}
	classes, err := app.ParseToggle(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(app.ExitInvalid)
	}
	cfg.MatrixPath, cfg.Classes, cfg.MetricsPath = args[0], classes, args[2]

	app.ConfigureLogging(cfg.Verbose)
	if err := app.Resolve(&cfg, configPath, envFile); err != nil {
		log.Error().Err(err).Msg("configuration")
		os.Exit(app.ExitCode(err))
	}
	app.ConfigureLogging(cfg.Verbose)

	if _, err := app.RunCycles(cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("cyclic dependency check failed")
		os.Exit(app.ExitCode(err))
	}
}
