package app

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envConfig lists the environment variables the tools understand. The
// fail ratio is a pointer so an explicit 0 is told apart from unset.
type envConfig struct {
	ProjectDir   string   `envconfig:"CI_PROJECT_DIR"`
	Schema       string   `envconfig:"CIGATE_SCHEMA"`
	TemplatesDir string   `envconfig:"CIGATE_TEMPLATES_DIR"`
	CodeMacro    string   `envconfig:"CIGATE_CODE_MACRO"`
	RawLaTeX     bool     `envconfig:"CIGATE_RAW_LATEX"`
	SkipNonTests bool     `envconfig:"CIGATE_SKIP_NON_TESTS"`
	KeepEmpty    bool     `envconfig:"CIGATE_KEEP_EMPTY"`
	FailRatio    *float64 `envconfig:"CIGATE_FAIL_RATIO"`
	MaxFanOut    float64  `envconfig:"CIGATE_MAX_FAN_OUT"`
	Verbose      bool     `envconfig:"CIGATE_VERBOSE"`
}

// ApplyEnvToConfig populates unset fields of cfg from environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = env.ProjectDir
	}
	if cfg.Schema == "" {
		cfg.Schema = env.Schema
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = env.TemplatesDir
	}
	if cfg.CodeMacro == "" {
		cfg.CodeMacro = env.CodeMacro
	}
	if !cfg.RawLaTeX {
		cfg.RawLaTeX = env.RawLaTeX
	}
	if !cfg.SkipNonTests {
		cfg.SkipNonTests = env.SkipNonTests
	}
	if !cfg.KeepEmpty {
		cfg.KeepEmpty = env.KeepEmpty
	}
	if !cfg.hasFailRatio() && env.FailRatio != nil {
		cfg.FailRatio, cfg.FailRatioSet = *env.FailRatio, true
	}
	if cfg.MaxFanOut == 0 {
		cfg.MaxFanOut = env.MaxFanOut
	}
	if !cfg.Verbose {
		cfg.Verbose = env.Verbose
	}
	return nil
}
