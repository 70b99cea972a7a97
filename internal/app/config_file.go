package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema shared by the
// tools. Nested sections map naturally to flags/env.
type FileConfig struct {
	Templates string `yaml:"templates" json:"templates" toml:"templates"`

	UTP struct {
		Schema       string `yaml:"schema" json:"schema" toml:"schema"`
		CodeMacro    string `yaml:"codeMacro" json:"codeMacro" toml:"codeMacro"`
		RawLaTeX     bool   `yaml:"rawLatex" json:"rawLatex" toml:"rawLatex"`
		SkipNonTests bool   `yaml:"skipNonTests" json:"skipNonTests" toml:"skipNonTests"`
		KeepEmpty    bool   `yaml:"keepEmpty" json:"keepEmpty" toml:"keepEmpty"`
		Glob         string `yaml:"glob" json:"glob" toml:"glob"`
		OutDir       string `yaml:"outDir" json:"outDir" toml:"outDir"`
		PDF          bool   `yaml:"pdf" json:"pdf" toml:"pdf"`
		Manifest     bool   `yaml:"manifest" json:"manifest" toml:"manifest"`
	} `yaml:"utp" json:"utp" toml:"utp"`

	Gates struct {
		// FailRatio is a pointer so that 0 (no violations allowed) can be set.
		FailRatio *float64 `yaml:"failRatio" json:"failRatio" toml:"failRatio"`
		MaxFanOut float64  `yaml:"maxFanOut" json:"maxFanOut" toml:"maxFanOut"`
	} `yaml:"gates" json:"gates" toml:"gates"`

	Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`
}

// LoadConfigFile reads YAML, JSON or TOML into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are still unset. Flags and env have already been applied.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.TemplatesDir == "" && fc.Templates != "" {
		cfg.TemplatesDir = fc.Templates
	}

	if cfg.Schema == "" && fc.UTP.Schema != "" {
		cfg.Schema = fc.UTP.Schema
	}
	if cfg.CodeMacro == "" && fc.UTP.CodeMacro != "" {
		cfg.CodeMacro = fc.UTP.CodeMacro
	}
	if !cfg.RawLaTeX && fc.UTP.RawLaTeX {
		cfg.RawLaTeX = true
	}
	if !cfg.SkipNonTests && fc.UTP.SkipNonTests {
		cfg.SkipNonTests = true
	}
	if !cfg.KeepEmpty && fc.UTP.KeepEmpty {
		cfg.KeepEmpty = true
	}
	if cfg.Glob == "" && fc.UTP.Glob != "" {
		cfg.Glob = fc.UTP.Glob
	}
	if cfg.OutDir == "" && fc.UTP.OutDir != "" {
		cfg.OutDir = fc.UTP.OutDir
	}
	if !cfg.PDF && fc.UTP.PDF {
		cfg.PDF = true
	}
	if !cfg.Manifest && fc.UTP.Manifest {
		cfg.Manifest = true
	}

	if !cfg.hasFailRatio() && fc.Gates.FailRatio != nil {
		cfg.FailRatio, cfg.FailRatioSet = *fc.Gates.FailRatio, true
	}
	if cfg.MaxFanOut == 0 && fc.Gates.MaxFanOut > 0 {
		cfg.MaxFanOut = fc.Gates.MaxFanOut
	}

	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
