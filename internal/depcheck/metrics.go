// Package depcheck implements the dependency quality gates run on the
// CSV exports of the static analysis job: cyclic dependencies and fan-out.
package depcheck

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
)

// DefaultFailRatio is the share of entities allowed to violate a gate.
const DefaultFailRatio = 0.03

// KindColumn is the metrics CSV column naming the entity kind.
const KindColumn = "Kind"

// Entity kinds counted from the metrics export.
const (
	KindClass = "Class"
	KindFile  = "File"
)

// Metrics is the subset of the metrics export the gates need.
type Metrics struct {
	Kinds []string
}

// LoadMetrics reads a metrics CSV with a Kind column.
func LoadMetrics(r io.Reader) (Metrics, error) {
	header, rows, err := readCSV(r)
	if err != nil {
		return Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	idx, err := column(header, KindColumn)
	if err != nil {
		return Metrics{}, fmt.Errorf("metrics: %w", err)
	}
	m := Metrics{Kinds: make([]string, 0, len(rows))}
	for _, row := range rows {
		m.Kinds = append(m.Kinds, cell(row, idx))
	}
	return m, nil
}

// CountKind counts rows whose kind contains kind, ignoring case. "Class"
// therefore also counts "Public Class" or "Abstract Class".
func (m Metrics) CountKind(kind string) int {
	needle := strings.ToLower(kind)
	n := 0
	for _, k := range m.Kinds {
		if strings.Contains(strings.ToLower(k), needle) {
			n++
		}
	}
	return n
}

// Allowance is the number of violating entities tolerated out of total.
func Allowance(total int, ratio float64) int {
	if total <= 0 || ratio <= 0 {
		return 0
	}
	return int(math.Floor(float64(total) * ratio))
}

// Gate is the outcome of comparing a violation count with its allowance.
type Gate struct {
	Violations int
	Allowed    int
}

// Failed reports whether the violations exceed the allowance.
func (g Gate) Failed() bool { return g.Violations > g.Allowed }

func readCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, records[1:], nil
}

func column(header []string, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %q not found", name)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
