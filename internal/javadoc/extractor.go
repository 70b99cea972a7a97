package javadoc

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMalformedInput is returned when the source does not start with an
// HTML doctype declaration and so cannot be generated Javadoc.
var ErrMalformedInput = errors.New("malformed documentation input")

const (
	doctype       = "<!DOCTYPE html>"
	methodsMarker = "<h2>Method Details</h2>"
	headingOpen   = "<h3>"
	headingClose  = "</h3>"
	sectionEnd    = "</section>"
	listEnd       = "</ul>"
	valueOpen     = "<dd>"
	valueClose    = "</dd>"
	listClose     = "</dl>"
)

// MethodRecord holds the fields extracted from one method section. Field
// values are raw HTML fragments with the <dd> wrapper removed.
type MethodRecord struct {
	Method string
	IsTest bool
	// Line is the line number of the method heading.
	Line   int
	fields map[Field]string
}

// Set stores a field value, marking the field as present.
func (r *MethodRecord) Set(f Field, v string) {
	if r.fields == nil {
		r.fields = make(map[Field]string, len(AllFields))
	}
	r.fields[f] = v
}

// Value returns the field value and whether the field was present.
func (r MethodRecord) Value(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Get returns the field value or "" when absent.
func (r MethodRecord) Get(f Field) string { return r.fields[f] }

// Missing lists the fields of required that are absent, in order.
func (r MethodRecord) Missing(required []Field) []Field {
	var out []Field
	for _, f := range required {
		if _, ok := r.fields[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// Incomplete describes a method section that was dropped.
type Incomplete struct {
	Method  string
	Line    int
	NotTest bool
	Missing []Field
}

// Extractor produces MethodRecords from a Javadoc HTML page. It is a
// single-pass, non-restartable sequence: call Next until it returns io.EOF.
type Extractor struct {
	cur     *Cursor
	schema  Schema
	source  string
	title   string
	seeked  bool
	done    bool
	dropped []Incomplete
}

// NewExtractor checks the doctype on the first line of r and returns an
// extractor positioned right after it. source is used in log messages.
func NewExtractor(r io.Reader, source string, schema Schema) (*Extractor, error) {
	cur := NewCursor(r)
	first, _ := cur.Advance()
	if !strings.EqualFold(first, doctype) {
		return nil, fmt.Errorf("%w: first line of %s does not declare HTML doctype", ErrMalformedInput, source)
	}
	return &Extractor{cur: cur, schema: schema, source: source}, nil
}

// Title returns the first word of the page title, e.g. the test class
// name. It reads ahead to the methods section if needed.
func (e *Extractor) Title() string {
	e.seek()
	return e.title
}

// Schema returns the schema the extractor applies.
func (e *Extractor) Schema() Schema { return e.schema }

// Next returns the next complete record, or io.EOF when the methods
// section is exhausted. Incomplete sections are logged and skipped.
func (e *Extractor) Next() (MethodRecord, error) {
	e.seek()
	for !e.done {
		var (
			rec  MethodRecord
			emit bool
		)
		if line := e.cur.Line(); strings.HasPrefix(line, headingOpen) {
			rec, emit = e.section(methodName(line))
		}
		next, ok := e.cur.Advance()
		if !ok || strings.HasPrefix(next, listEnd) {
			e.done = true
		}
		if emit {
			return rec, nil
		}
	}
	return MethodRecord{}, io.EOF
}

// Failures is the number of sections dropped as failures so far.
func (e *Extractor) Failures() int { return len(e.dropped) }

// Dropped returns the failed sections seen so far.
func (e *Extractor) Dropped() []Incomplete {
	return append([]Incomplete(nil), e.dropped...)
}

// seek skips to the methods section, remembering the page title on the way.
func (e *Extractor) seek() {
	if e.seeked {
		return
	}
	e.seeked = true
	for {
		line, ok := e.cur.Advance()
		if !ok {
			e.done = true
			return
		}
		if e.title == "" && strings.Contains(line, "<title>") {
			e.title = titleFrom(line)
		}
		if line == methodsMarker {
			return
		}
	}
}

// section scans one method section up to its end marker.
func (e *Extractor) section(name string) (MethodRecord, bool) {
	rec := MethodRecord{Method: name, Line: e.cur.LineNumber()}
	marker := e.schema.marker()
	for e.cur.Line() != sectionEnd {
		line, ok := e.cur.Advance()
		if !ok {
			break
		}
		if strings.Contains(line, marker) {
			rec.IsTest = true
		}
		if f, ok := fieldForLine(line); ok {
			if v, ok := e.value(); ok {
				rec.Set(f, v)
			}
		}
	}
	return rec, e.accept(rec)
}

// value reads a field value following its label.
func (e *Extractor) value() (string, bool) {
	if !e.schema.MultiLine {
		line, ok := e.cur.Advance()
		if !ok || line == sectionEnd {
			return "", false
		}
		return stripValue(line), true
	}
	var parts []string
	for {
		// An unclosed <dd> ends with its list or section; the cursor stays
		// on that line so the section scan sees it.
		line, ok := e.cur.Advance()
		if !ok || line == sectionEnd || strings.HasPrefix(line, listClose) {
			break
		}
		parts = append(parts, line)
		if strings.Contains(line, valueClose) {
			break
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	v := strings.Join(parts, " ")
	v = strings.ReplaceAll(v, valueOpen, "")
	v = strings.ReplaceAll(v, valueClose, "")
	return strings.TrimSpace(v), true
}

// accept applies the completeness rule and logs dropped sections.
func (e *Extractor) accept(rec MethodRecord) bool {
	if !rec.IsTest && e.schema.SkipNonTests {
		log.Debug().Str("source", e.source).Str("method", rec.Method).Msg("not a test; skipping")
		return false
	}
	missing := rec.Missing(e.schema.Required)
	if rec.IsTest && len(missing) == 0 {
		return true
	}
	name := e.qualified(rec.Method)
	if !rec.IsTest {
		log.Error().Str("source", e.source).Int("line", rec.Line).
			Msgf("Test case %s() is not annotated with %s.", name, e.schema.marker())
	}
	for _, f := range missing {
		log.Error().Str("source", e.source).Int("line", rec.Line).
			Msgf("Test case %s() does not have %s.", name, f.Noun())
	}
	log.Error().Str("source", e.source).
		Msgf("Missing information for test case %s(). Skipping writing of information.", name)
	e.dropped = append(e.dropped, Incomplete{Method: rec.Method, Line: rec.Line, NotTest: !rec.IsTest, Missing: missing})
	return false
}

// qualified prefixes the method with the source's base name, e.g.
// FooTest.testBar.
func (e *Extractor) qualified(method string) string {
	base := filepath.Base(e.source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return method
	}
	return base + "." + method
}

func methodName(line string) string {
	name := strings.TrimPrefix(line, headingOpen)
	name = strings.TrimSuffix(strings.TrimSpace(name), headingClose)
	return strings.TrimSpace(name)
}

func titleFrom(line string) string {
	s := line[strings.Index(line, "<title>")+len("<title>"):]
	s = strings.ReplaceAll(s, "</title>", " ")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func stripValue(line string) string {
	v := strings.TrimSpace(line)
	v = strings.TrimPrefix(v, valueOpen)
	v = strings.TrimSuffix(v, valueClose)
	return strings.TrimSpace(v)
}
