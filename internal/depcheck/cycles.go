package depcheck

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// IndexColumn names the row labels of the dependency matrix export.
const IndexColumn = "Dependent File"

// Matrix is a dependency matrix: a non-empty cell at (row, col) means row
// depends on col.
type Matrix struct {
	Rows  []string
	Cols  []string
	cells map[string]map[string]bool
}

// Has reports whether row depends on col.
func (m Matrix) Has(row, col string) bool {
	return m.cells[row][col]
}

// Set marks row as depending on col.
func (m *Matrix) Set(row, col string) {
	if m.cells == nil {
		m.cells = make(map[string]map[string]bool)
	}
	if m.cells[row] == nil {
		m.cells[row] = make(map[string]bool)
	}
	m.cells[row][col] = true
}

// LoadMatrix reads the matrix CSV. Double quotes are removed from the whole
// input before parsing, as the export quotes names inconsistently.
func LoadMatrix(r io.Reader) (Matrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Matrix{}, fmt.Errorf("matrix: %w", err)
	}
	data = bytes.ReplaceAll(data, []byte(`"`), nil)
	header, rows, err := readCSV(bytes.NewReader(data))
	if err != nil {
		return Matrix{}, fmt.Errorf("matrix: %w", err)
	}
	idx, err := column(header, IndexColumn)
	if err != nil {
		return Matrix{}, fmt.Errorf("matrix: %w", err)
	}
	var m Matrix
	for j, h := range header {
		if j != idx {
			m.Cols = append(m.Cols, h)
		}
	}
	for _, row := range rows {
		name := cell(row, idx)
		m.Rows = append(m.Rows, name)
		for j, col := range header {
			if j == idx {
				continue
			}
			if v := cell(row, j); v != "" && v != "NaN" && v != "nan" {
				m.Set(name, col)
			}
		}
	}
	return m, nil
}

// Cycle is a two-way dependency between A and B; A == B for a file that
// depends on itself.
type Cycle struct {
	A, B string
}

// CycleReport lists every two-way dependency once and the entities
// involved. Components holds larger strongly connected groups, which the
// gate does not count but which are worth logging.
type CycleReport struct {
	Pairs      []Cycle
	Entities   []string
	Components [][]string
}

// Cycles finds symmetric dependencies among entities that appear both as a
// row and as a column of the matrix.
func Cycles(m Matrix) CycleReport {
	ids := map[string]int64{}
	var names []string
	id := func(name string) int64 {
		if v, ok := ids[name]; ok {
			return v
		}
		v := int64(len(names))
		ids[name] = v
		names = append(names, name)
		return v
	}

	g := simple.NewDirectedGraph()
	self := map[string]bool{}
	for _, r := range m.Rows {
		if g.Node(id(r)) == nil {
			g.AddNode(simple.Node(id(r)))
		}
		for _, c := range m.Cols {
			if !m.Has(r, c) {
				continue
			}
			if r == c {
				self[r] = true
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(id(r)), simple.Node(id(c))))
		}
	}

	inCols := map[string]bool{}
	for _, c := range m.Cols {
		inCols[c] = true
	}
	seen := map[string]bool{}
	var shared []string
	for _, r := range m.Rows {
		if inCols[r] && !seen[r] {
			seen[r] = true
			shared = append(shared, r)
		}
	}
	sort.Strings(shared)

	var rep CycleReport
	involved := map[string]bool{}
	for i, a := range shared {
		for _, b := range shared[i:] {
			var cyclic bool
			if a == b {
				cyclic = self[a]
			} else {
				cyclic = g.HasEdgeFromTo(ids[a], ids[b]) && g.HasEdgeFromTo(ids[b], ids[a])
			}
			if cyclic {
				rep.Pairs = append(rep.Pairs, Cycle{A: a, B: b})
				involved[a], involved[b] = true, true
			}
		}
	}
	for name := range involved {
		rep.Entities = append(rep.Entities, name)
	}
	sort.Strings(rep.Entities)

	for _, comp := range topo.TarjanSCC(g) {
		if len(comp) <= 2 {
			continue
		}
		group := make([]string, 0, len(comp))
		for _, n := range comp {
			group = append(group, names[n.ID()])
		}
		sort.Strings(group)
		rep.Components = append(rep.Components, group)
	}
	sort.Slice(rep.Components, func(i, j int) bool { return rep.Components[i][0] < rep.Components[j][0] })
	return rep
}
