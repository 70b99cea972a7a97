// Command utpdoc turns the unit test documentation in generated Javadoc
// pages into LaTeX tables for the unit test plan.
//
// Usage:
//
//	utpdoc [flags] INPUT.html OUTPUT.tex
//	utpdoc [flags] -glob 'build/docs/**/*Test.html' -out.dir utp/
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

	fs := flag.NewFlagSet("utpdoc", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: utpdoc [flags] INPUT.html OUTPUT.tex")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Schema, "schema", "", "Record schema: simple (one row per test) or full (table per test)")
	fs.StringVar(&cfg.TemplatesDir, "templates", "", "Directory with UTP_simple_begin.tex and UTP_simple_end.tex (default $CI_PROJECT_DIR/ci)")
	fs.StringVar(&cfg.CodeMacro, "code.macro", "", "LaTeX macro wrapped around inline code (default java)")
	fs.BoolVar(&cfg.RawLaTeX, "raw.latex", false, "Pass description text through unescaped so inline LaTeX such as $x$ survives")
	fs.BoolVar(&cfg.SkipNonTests, "skip-non-tests", false, "Ignore methods without @Test instead of failing them (full schema)")
	fs.BoolVar(&cfg.KeepEmpty, "keep-empty", false, "Keep the output file even when no test case was written")
	fs.StringVar(&cfg.Glob, "glob", "", "Process every page matching this pattern (supports **)")
	fs.StringVar(&cfg.OutDir, "out.dir", "", "Output directory for -glob runs")
	fs.BoolVar(&cfg.PDF, "pdf", false, "Also render the test cases as PDF")
	fs.StringVar(&cfg.PDFPath, "pdf.out", "", "PDF output path (default OUTPUT with .pdf extension)")
	fs.BoolVar(&cfg.Manifest, "manifest", false, "Write a JSON manifest next to the output")
	fs.StringVar(&configPath, "config", os.Getenv("CIGATE_CONFIG"), "Path to YAML, JSON or TOML config file")
	fs.StringVar(&envFile, "env", ".env", "Dotenv file loaded before reading the environment")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(app.ExitInvalid)
	}
	if version {
		fmt.Println(app.VersionString("utpdoc"))
		return
	}

	args := fs.Args()
	switch {
	case cfg.Glob != "" && len(args) == 0:
	case cfg.Glob == "" && len(args) == 2:
		cfg.InputPath, cfg.OutputPath = args[0], args[1]
	default:
		fs.Usage()
		os.Exit(app.ExitInvalid)
	}

	app.ConfigureLogging(cfg.Verbose)
	if err := app.Resolve(&cfg, configPath, envFile); err != nil {
		log.Error().Err(err).Msg("configuration")
		os.Exit(app.ExitCode(err))
	}
	app.ConfigureLogging(cfg.Verbose)

	os.Exit(app.ExitCode(run(cfg)))
}

func run(cfg app.Config) error {
	u, err := app.NewUTP(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init failed")
		return err
	}
	results, err := u.Run()
	written := 0
	for _, r := range results {
		written += r.Written
	}
	if err != nil {
		log.Error().Err(err).Int("written", written).Msg("run failed")
		return err
	}
	log.Info().Int("pages", len(results)).Int("written", written).Msg("done")
	return nil
}
