package depcheck

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// DefaultMaxFanOut is the first fan-out value that violates the gate.
const DefaultMaxFanOut = 16

// Columns of the file dependency export.
const (
	FromColumn = "From File"
	ToColumn   = "To Entities"
)

// Edge is one row of the file dependency export: From depends on Count
// entities of some other file.
type Edge struct {
	From  string
	Count float64
}

// LoadEdges reads the file dependency CSV. Empty counts read as zero.
func LoadEdges(r io.Reader) ([]Edge, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	from, err := column(header, FromColumn)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	to, err := column(header, ToColumn)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	edges := make([]Edge, 0, len(rows))
	for i, row := range rows {
		e := Edge{From: cell(row, from)}
		if v := cell(row, to); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("dependencies: row %d: %s %q: %w", i+2, ToColumn, v, err)
			}
			e.Count = n
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// FanOutViolation is a file whose summed fan-out reached the threshold.
type FanOutViolation struct {
	File   string
	FanOut float64
}

// FanOut sums Count per From file and returns, sorted by file name, every
// file whose total is at least threshold.
func FanOut(edges []Edge, threshold float64) []FanOutViolation {
	groups := map[string][]float64{}
	for _, e := range edges {
		groups[e.From] = append(groups[e.From], e.Count)
	}
	var out []FanOutViolation
	for file, counts := range groups {
		if total := floats.Sum(counts); total >= threshold {
			out = append(out, FanOutViolation{File: file, FanOut: total})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}
