package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/cigate/internal/depcheck"
	"github.com/hyperifyio/cigate/internal/javadoc"
)

// ErrInvalidConfig marks invocation and configuration errors; the CLIs map
// it to exit code 2.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration for the tools.
type Config struct {
	InputPath  string
	OutputPath string

	// Test plan extraction
	Schema       string
	TemplatesDir string
	CodeMacro    string
	RawLaTeX     bool
	SkipNonTests bool
	KeepEmpty    bool
	Glob         string
	OutDir       string

	// Optional artifacts
	PDF      bool
	PDFPath  string
	Manifest bool

	// Dependency gates
	MatrixPath   string
	DepsPath     string
	MetricsPath  string
	Classes      bool
	FailRatio    float64
	FailRatioSet bool // FailRatio is explicit; 0 then allows no violations
	MaxFanOut    float64

	// ProjectDir is the CI checkout root; templates default to <ProjectDir>/ci.
	ProjectDir string
	Verbose    bool
}

// ApplyDefaults fills whatever is still unset after flags, env and file.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.Schema) == "" {
		cfg.Schema = string(javadoc.SimpleType)
	}
	if cfg.TemplatesDir == "" && cfg.ProjectDir != "" {
		cfg.TemplatesDir = filepath.Join(cfg.ProjectDir, "ci")
	}
	if !cfg.hasFailRatio() {
		cfg.FailRatio = depcheck.DefaultFailRatio
	}
	if cfg.MaxFanOut == 0 {
		cfg.MaxFanOut = depcheck.DefaultMaxFanOut
	}
}

// hasFailRatio reports whether a fail ratio was given. A nonzero ratio
// counts as given; 0 only when FailRatioSet says so.
func (c Config) hasFailRatio() bool { return c.FailRatioSet || c.FailRatio != 0 }

// ValidateConfig checks the settings needed by the test plan tool.
func ValidateConfig(cfg Config) error {
	if _, ok := javadoc.SchemaByName(cfg.Schema); !ok {
		return fmt.Errorf("%w: unknown schema %q", ErrInvalidConfig, cfg.Schema)
	}
	if trim(cfg.Glob) != "" {
		if trim(cfg.OutDir) == "" {
			return fmt.Errorf("%w: -out.dir is required with -glob", ErrInvalidConfig)
		}
	} else {
		if trim(cfg.InputPath) == "" {
			return fmt.Errorf("%w: input path is required", ErrInvalidConfig)
		}
		if trim(cfg.OutputPath) == "" {
			return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
		}
	}
	if s, _ := javadoc.SchemaByName(cfg.Schema); s.Type == javadoc.SimpleType && trim(cfg.TemplatesDir) == "" {
		return fmt.Errorf("%w: templates directory is required for the simple schema (set -templates or CI_PROJECT_DIR)", ErrInvalidConfig)
	}
	return nil
}

// ValidateGateConfig checks the settings shared by the dependency gates.
func ValidateGateConfig(cfg Config) error {
	if trim(cfg.MetricsPath) == "" {
		return fmt.Errorf("%w: metrics CSV path is required", ErrInvalidConfig)
	}
	if cfg.FailRatio < 0 || cfg.FailRatio > 1 {
		return fmt.Errorf("%w: fail ratio %v outside [0,1]", ErrInvalidConfig, cfg.FailRatio)
	}
	if cfg.MaxFanOut < 0 {
		return fmt.Errorf("%w: negative fan-out threshold", ErrInvalidConfig)
	}
	return nil
}

func trim(s string) string { return strings.TrimSpace(s) }
