package depcheck

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadMetrics_CountKind(t *testing.T) {
	csv := "Kind,Name,CountLine\n" +
		"Public Class,org.a.A,10\n" +
		"Class,org.a.B,10\n" +
		"File,A.java,10\n" +
		"Abstract Class,org.a.C,4\n" +
		",x,1\n"
	m, err := LoadMetrics(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadMetrics: %v", err)
	}
	if got := m.CountKind(KindClass); got != 3 {
		t.Fatalf("classes=%d, want 3", got)
	}
	if got := m.CountKind("file"); got != 1 {
		t.Fatalf("files=%d, want 1", got)
	}
}

func TestLoadMetrics_MissingKindColumn(t *testing.T) {
	if _, err := LoadMetrics(strings.NewReader("Name\nA\n")); err == nil {
		t.Fatalf("expected error for missing Kind column")
	}
}

func TestAllowance(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{{0, 0}, {33, 0}, {34, 1}, {100, 3}, {250, 7}}
	for _, tt := range tests {
		if got := Allowance(tt.total, DefaultFailRatio); got != tt.want {
			t.Errorf("Allowance(%d)=%d, want %d", tt.total, got, tt.want)
		}
	}
	if !(Gate{Violations: 2, Allowed: 1}).Failed() || (Gate{Violations: 1, Allowed: 1}).Failed() {
		t.Fatalf("gate must fail only above the allowance")
	}
}

func TestCycles_PairReportedOnce(t *testing.T) {
	csv := `"Dependent File","A.java","B.java","C.java"` + "\n" +
		`"A.java",,2,1` + "\n" +
		`"B.java",3,,` + "\n" +
		`"C.java",,,` + "\n"
	m, err := LoadMatrix(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	rep := Cycles(m)
	want := []Cycle{{A: "A.java", B: "B.java"}}
	if !reflect.DeepEqual(rep.Pairs, want) {
		t.Fatalf("pairs=%v, want %v", rep.Pairs, want)
	}
	if !reflect.DeepEqual(rep.Entities, []string{"A.java", "B.java"}) {
		t.Fatalf("entities=%v", rep.Entities)
	}
}

func TestCycles_SelfDependencyAndIntersection(t *testing.T) {
	csv := "Dependent File,A,B,X\n" +
		"A,1,,\n" +
		"B,,,1\n" +
		"Y,,1,\n"
	m, err := LoadMatrix(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	rep := Cycles(m)
	want := []Cycle{{A: "A", B: "A"}}
	if !reflect.DeepEqual(rep.Pairs, want) {
		t.Fatalf("pairs=%v, want %v", rep.Pairs, want)
	}
}

func TestCycles_LongerComponentsAreInformational(t *testing.T) {
	csv := "Dependent File,A,B,C\n" +
		"A,,1,\n" +
		"B,,,1\n" +
		"C,1,,\n"
	m, err := LoadMatrix(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	rep := Cycles(m)
	if len(rep.Pairs) != 0 {
		t.Fatalf("no two-way pairs expected, got %v", rep.Pairs)
	}
	if !reflect.DeepEqual(rep.Components, [][]string{{"A", "B", "C"}}) {
		t.Fatalf("components=%v", rep.Components)
	}
}

func TestLoadMatrix_RequiresIndexColumn(t *testing.T) {
	if _, err := LoadMatrix(strings.NewReader("File,A\nA,1\n")); err == nil {
		t.Fatalf("expected error for missing index column")
	}
}

func TestFanOut(t *testing.T) {
	csv := "From File,To File,To Entities\n" +
		"A.java,B.java,10\n" +
		"A.java,C.java,6\n" +
		"B.java,C.java,15\n" +
		"C.java,A.java,\n" +
		"D.java,A.java,20\n"
	edges, err := LoadEdges(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadEdges: %v", err)
	}
	got := FanOut(edges, DefaultMaxFanOut)
	want := []FanOutViolation{{File: "A.java", FanOut: 16}, {File: "D.java", FanOut: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FanOut=%v, want %v", got, want)
	}
}

func TestLoadEdges_BadCount(t *testing.T) {
	_, err := LoadEdges(strings.NewReader("From File,To Entities\nA,many\n"))
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected row-tagged parse error, got %v", err)
	}
}
