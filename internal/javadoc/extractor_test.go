package javadoc

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// page builds a minimal Javadoc page around the given method sections.
func page(title string, sections ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<title>" + title + " (backend 1.0 API)</title>\n")
	b.WriteString("</head>\n<body>\n<section class=\"method-details\">\n")
	b.WriteString("<h2>Method Details</h2>\n<ul class=\"member-list\">\n")
	for _, s := range sections {
		b.WriteString("<li>\n")
		b.WriteString(s)
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n</section>\n</body>\n</html>\n")
	return b.String()
}

func method(name string, test bool, fields ...string) string {
	var b strings.Builder
	b.WriteString("<section class=\"detail\" id=\"" + name + "()\">\n")
	b.WriteString("<h3>" + name + "</h3>\n")
	b.WriteString("<div class=\"member-signature\">")
	if test {
		b.WriteString("<span class=\"annotations\">@Test\n</span>")
	}
	b.WriteString("<span class=\"return-type\">void</span>&nbsp;<span class=\"element-name\">" + name + "</span>()</div>\n")
	b.WriteString("<dl class=\"notes\">\n")
	for i := 0; i+1 < len(fields); i += 2 {
		b.WriteString("<dt>" + fields[i] + "</dt>\n")
		b.WriteString(fields[i+1] + "\n")
	}
	b.WriteString("</dl>\n</section>\n")
	return b.String()
}

func collect(t *testing.T, e *Extractor) []MethodRecord {
	t.Helper()
	var out []MethodRecord
	for {
		rec, err := e.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, rec)
	}
}

func fullFields(desc string) []string {
	return []string{
		"Unit test description:", "<dd>" + desc + "</dd>",
		"Test items:", "<dd>Board</dd>",
		"Input specifications:", "<dd>A fresh board</dd>",
		"Output specifications:", "<dd>No exception</dd>",
		"Environmental needs:", "<dd>None</dd>",
	}
}

func TestNewExtractor_RejectsMissingDoctype(t *testing.T) {
	_, err := NewExtractor(strings.NewReader("<html>\n<h2>Method Details</h2>\n"), "FooTest.html", Simple())
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestNewExtractor_DoctypeCaseInsensitiveWithBOM(t *testing.T) {
	src := "\ufeff  <!doctype HTML>\n<title>FooTest</title>\n"
	e, err := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	if got := e.Title(); got != "FooTest" {
		t.Fatalf("Title()=%q, want FooTest", got)
	}
	if recs := collect(t, e); len(recs) != 0 {
		t.Fatalf("expected no records without a methods section, got %d", len(recs))
	}
}

func TestSimple_SingleTestWithDescription(t *testing.T) {
	src := page("FooTest", method("testBar", true, "Unit test description:", "<dd>Checks the bar.</dd>"))
	e, err := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	if e.Title() != "FooTest" {
		t.Fatalf("title=%q", e.Title())
	}
	recs := collect(t, e)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Method != "testBar" || !recs[0].IsTest {
		t.Fatalf("unexpected record %+v", recs[0])
	}
	if got := recs[0].Get(Description); got != "Checks the bar." {
		t.Fatalf("description=%q", got)
	}
	if e.Failures() != 0 {
		t.Fatalf("unexpected failures: %d", e.Failures())
	}
}

func TestSimple_MultiLineDescriptionKeepsOrderAndCode(t *testing.T) {
	src := page("FooTest", method("testBar", true,
		"Unit test description:", "<dd>First line with <code>x</code>\nsecond line\nthird line.</dd>"))
	e, err := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	recs := collect(t, e)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := "First line with <code>x</code> second line third line."
	if got := recs[0].Get(Description); got != want {
		t.Fatalf("description=%q, want %q", got, want)
	}
}

func TestSimple_NonTestsSkippedWithoutFailure(t *testing.T) {
	src := page("FooTest",
		method("setUp", false),
		method("testBar", true, "Unit test description:", "<dd>d</dd>"),
	)
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	recs := collect(t, e)
	if len(recs) != 1 || recs[0].Method != "testBar" {
		t.Fatalf("unexpected records %+v", recs)
	}
	if e.Failures() != 0 {
		t.Fatalf("non-test methods must not fail the simple schema, got %d", e.Failures())
	}
}

func TestSimple_TestWithoutDescriptionFails(t *testing.T) {
	src := page("FooTest",
		method("testA", true),
		method("testB", true, "Unit test description:", "<dd>b</dd>"),
	)
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	recs := collect(t, e)
	if len(recs) != 1 || recs[0].Method != "testB" {
		t.Fatalf("unexpected records %+v", recs)
	}
	dropped := e.Dropped()
	if len(dropped) != 1 || dropped[0].Method != "testA" {
		t.Fatalf("unexpected dropped %+v", dropped)
	}
	if len(dropped[0].Missing) != 1 || dropped[0].Missing[0] != Description {
		t.Fatalf("unexpected missing %+v", dropped[0].Missing)
	}
}

func TestFull_AllFieldsRequired(t *testing.T) {
	for _, drop := range AllFields {
		t.Run(drop.String(), func(t *testing.T) {
			fields := fullFields("desc")
			var kept []string
			for i := 0; i < len(fields); i += 2 {
				if fields[i] == drop.Label() {
					continue
				}
				kept = append(kept, fields[i], fields[i+1])
			}
			src := page("FooTest",
				method("testOk", true, fullFields("ok")...),
				method("testBroken", true, kept...),
			)
			e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Full())
			recs := collect(t, e)
			if len(recs) != 1 || recs[0].Method != "testOk" {
				t.Fatalf("unexpected records %+v", recs)
			}
			if e.Failures() != 1 {
				t.Fatalf("failures=%d, want 1", e.Failures())
			}
			if m := e.Dropped()[0].Missing; len(m) != 1 || m[0] != drop {
				t.Fatalf("missing=%v, want [%v]", m, drop)
			}
		})
	}
}

func TestFull_SingleLineValues(t *testing.T) {
	src := page("FooTest", method("testOk", true, fullFields("only this line")...))
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Full())
	recs := collect(t, e)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	checks := map[Field]string{
		Description: "only this line",
		TestItems:   "Board",
		InputSpecs:  "A fresh board",
		OutputSpecs: "No exception",
		EnvNeeds:    "None",
	}
	for f, want := range checks {
		if got := r.Get(f); got != want {
			t.Errorf("%v=%q, want %q", f, got, want)
		}
	}
}

func TestFull_NonTestCountsAsFailureUnlessSkipped(t *testing.T) {
	src := page("FooTest", method("helper", false), method("testOk", true, fullFields("ok")...))

	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Full())
	if recs := collect(t, e); len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if e.Failures() != 1 || !e.Dropped()[0].NotTest {
		t.Fatalf("expected the non-test method to fail, got %+v", e.Dropped())
	}

	schema := Full()
	schema.SkipNonTests = true
	e, _ = NewExtractor(strings.NewReader(src), "FooTest.html", schema)
	if recs := collect(t, e); len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if e.Failures() != 0 {
		t.Fatalf("expected no failures with SkipNonTests, got %d", e.Failures())
	}
}

func TestExtractor_StopsAtListEnd(t *testing.T) {
	src := page("FooTest", method("testA", true, "Unit test description:", "<dd>a</dd>")) +
		"<h3>testAfterList</h3>\n@Test\n<dt>Unit test description:</dt>\n<dd>late</dd>\n</section>\n"
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	recs := collect(t, e)
	if len(recs) != 1 || recs[0].Method != "testA" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestExtractor_BlankLinesAreNotEndOfInput(t *testing.T) {
	sec := method("testBar", true, "Unit test description:", "<dd>d</dd>")
	src := page("FooTest", "\n\n"+sec)
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	if recs := collect(t, e); len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestExtractor_UnterminatedSectionAtEOF(t *testing.T) {
	src := "<!DOCTYPE html>\n<h2>Method Details</h2>\n<h3>testBar</h3>\n@Test\n<dt>Unit test description:</dt>\n<dd>d</dd>"
	e, _ := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
	recs := collect(t, e)
	if len(recs) != 1 || recs[0].Get(Description) != "d" {
		t.Fatalf("unexpected records %+v", recs)
	}
	if _, err := e.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after exhaustion, got %v", err)
	}
}

func TestExtractor_RecordCountMatchesCompleteSections(t *testing.T) {
	var sections []string
	want := 0
	for i := 0; i < 20; i++ {
		name := "test" + strings.Repeat("x", i+1)
		switch i % 3 {
		case 0:
			sections = append(sections, method(name, true, "Unit test description:", "<dd>d</dd>"))
			want++
		case 1:
			sections = append(sections, method(name, true))
		default:
			sections = append(sections, method(name, false, "Unit test description:", "<dd>d</dd>"))
		}
	}
	e, _ := NewExtractor(strings.NewReader(page("FooTest", sections...)), "FooTest.html", Simple())
	if got := len(collect(t, e)); got != want {
		t.Fatalf("records=%d, want %d", got, want)
	}
	if e.Failures() != 7 {
		t.Fatalf("failures=%d, want 7", e.Failures())
	}
}

func TestSimple_UnclosedValueStopsAtSectionEnd(t *testing.T) {
	tests := []struct {
		name string
		dd   string
	}{
		{"list closes value", "<dd>first"},
		{"section closes value", "<dd>first\n</section>\n<section>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := page("FooTest",
				method("testA", true, "Unit test description:", tt.dd),
				method("testB", true, "Unit test description:", "<dd>second</dd>"),
			)
			e, err := NewExtractor(strings.NewReader(src), "FooTest.html", Simple())
			if err != nil {
				t.Fatalf("NewExtractor: %v", err)
			}
			recs := collect(t, e)
			if len(recs) != 2 {
				t.Fatalf("expected 2 records, got %+v", recs)
			}
			if recs[0].Method != "testA" || recs[0].Get(Description) != "first" {
				t.Fatalf("testA record = %+v", recs[0])
			}
			if recs[1].Method != "testB" || recs[1].Get(Description) != "second" {
				t.Fatalf("testB record = %+v", recs[1])
			}
			if e.Failures() != 0 {
				t.Fatalf("failures=%d, want 0", e.Failures())
			}
		})
	}
}
