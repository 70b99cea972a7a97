package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/cigate/internal/depcheck"
)

// ErrQualityGate is returned when more entities violate a gate than the
// allowance permits.
var ErrQualityGate = errors.New("quality gate failed")

// ParseToggle parses the class/file toggle of the cyclic gate. Only the
// exact strings "true" and "false" are accepted.
func ParseToggle(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: toggle must be 'true' or 'false', got %q", ErrInvalidConfig, s)
}

// RunCycles checks the dependency matrix for two-way dependencies and
// prints each one to w.
func RunCycles(cfg Config, w io.Writer) (depcheck.Gate, error) {
	if err := ValidateGateConfig(cfg); err != nil {
		return depcheck.Gate{}, err
	}
	if trim(cfg.MatrixPath) == "" {
		return depcheck.Gate{}, fmt.Errorf("%w: dependency matrix path is required", ErrInvalidConfig)
	}
	kind := depcheck.KindFile
	if cfg.Classes {
		kind = depcheck.KindClass
	}
	allowed, err := allowance(cfg, kind)
	if err != nil {
		return depcheck.Gate{}, err
	}

	m, err := loadWith(cfg.MatrixPath, depcheck.LoadMatrix)
	if err != nil {
		return depcheck.Gate{}, err
	}
	rep := depcheck.Cycles(m)
	for _, p := range rep.Pairs {
		fmt.Fprintln(w, "File", p.A, "is in a cyclic dependency with", p.B)
	}
	for _, comp := range rep.Components {
		log.Info().Int("size", len(comp)).Str("members", strings.Join(comp, ", ")).Msg("longer dependency cycle")
	}

	gate := depcheck.Gate{Violations: len(rep.Entities), Allowed: allowed}
	fmt.Fprintf(w, "%d %s are involved in a cycle. The maximum is %d.\n", gate.Violations, plural(kind), gate.Allowed)
	if gate.Failed() {
		return gate, fmt.Errorf("%w: %d entities in cycles, %d allowed", ErrQualityGate, gate.Violations, gate.Allowed)
	}
	return gate, nil
}

// RunFanOut checks every file's summed fan-out against the threshold and
// prints each violation to w.
func RunFanOut(cfg Config, w io.Writer) (depcheck.Gate, error) {
	if err := ValidateGateConfig(cfg); err != nil {
		return depcheck.Gate{}, err
	}
	if trim(cfg.DepsPath) == "" {
		return depcheck.Gate{}, fmt.Errorf("%w: file dependency CSV path is required", ErrInvalidConfig)
	}
	allowed, err := allowance(cfg, depcheck.KindFile)
	if err != nil {
		return depcheck.Gate{}, err
	}

	edges, err := loadWith(cfg.DepsPath, depcheck.LoadEdges)
	if err != nil {
		return depcheck.Gate{}, err
	}
	threshold := cfg.MaxFanOut
	if threshold == 0 {
		threshold = depcheck.DefaultMaxFanOut
	}
	violations := depcheck.FanOut(edges, threshold)
	for _, v := range violations {
		fmt.Fprintf(w, "File %s has coupled with %s modules, which is more than the allowed %s.\n",
			v.File, formatCount(v.FanOut), formatCount(threshold-1))
	}

	gate := depcheck.Gate{Violations: len(violations), Allowed: allowed}
	log.Debug().Int("violations", gate.Violations).Int("allowed", gate.Allowed).Msg("fan-out gate")
	if gate.Failed() {
		return gate, fmt.Errorf("%w: %d files over fan-out, %d allowed", ErrQualityGate, gate.Violations, gate.Allowed)
	}
	return gate, nil
}

func allowance(cfg Config, kind string) (int, error) {
	metrics, err := loadWith(cfg.MetricsPath, depcheck.LoadMetrics)
	if err != nil {
		return 0, err
	}
	ratio := cfg.FailRatio
	if !cfg.hasFailRatio() {
		ratio = depcheck.DefaultFailRatio
	}
	total := metrics.CountKind(kind)
	log.Debug().Str("kind", kind).Int("total", total).Float64("ratio", ratio).Msg("gate allowance")
	return depcheck.Allowance(total, ratio), nil
}

// loadWith opens path and hands it to load, closing it afterwards.
func loadWith[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	v, err := load(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(kind string) string {
	if kind == depcheck.KindClass {
		return "classes"
	}
	return "files"
}
