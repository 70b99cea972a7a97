package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Exit codes shared by the tools.
const (
	ExitOK      = 0
	ExitFailed  = 1
	ExitInvalid = 2
)

// ConfigureLogging sends the global logger to stderr in console format.
func ConfigureLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Resolve completes cfg, which holds the parsed flags, from dotenv files,
// the environment, an optional config file and the defaults, in that order
// of precedence after the flags.
func Resolve(cfg *Config, configPath string, envFiles ...string) error {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return fmt.Errorf("%w: env file: %v", ErrInvalidConfig, err)
	}
	if err := ApplyEnvToConfig(cfg); err != nil {
		return err
	}
	if trim(configPath) != "" {
		fc, err := LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("%w: config file: %v", ErrInvalidConfig, err)
		}
		ApplyFileConfig(cfg, fc)
	}
	ApplyDefaults(cfg)
	return nil
}

// ExitCode maps a run error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidConfig):
		return ExitInvalid
	default:
		// Malformed pages, dropped records and failed gates alike.
		return ExitFailed
	}
}
