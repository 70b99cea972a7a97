package javadoc

import "strings"

// Field identifies one labelled definition-list entry of a method section.
type Field int

const (
	Description Field = iota
	TestItems
	InputSpecs
	OutputSpecs
	EnvNeeds
)

// AllFields lists every field in output order.
var AllFields = []Field{Description, TestItems, InputSpecs, OutputSpecs, EnvNeeds}

// Label is the exact <dt> text that introduces the field.
func (f Field) Label() string {
	switch f {
	case Description:
		return "Unit test description:"
	case TestItems:
		return "Test items:"
	case InputSpecs:
		return "Input specifications:"
	case OutputSpecs:
		return "Output specifications:"
	case EnvNeeds:
		return "Environmental needs:"
	}
	return ""
}

// Noun is the phrase used in "does not have ..." log messages.
func (f Field) Noun() string {
	switch f {
	case Description:
		return "a description"
	case TestItems:
		return "test items"
	case InputSpecs:
		return "input specifications"
	case OutputSpecs:
		return "output specifications"
	case EnvNeeds:
		return "environmental needs"
	}
	return "field"
}

func (f Field) String() string {
	return strings.TrimSuffix(f.Label(), ":")
}

// fieldForLine maps a "<dt>LABEL</dt>" line to its field.
func fieldForLine(line string) (Field, bool) {
	if !strings.HasPrefix(line, "<dt>") || !strings.HasSuffix(line, "</dt>") {
		return 0, false
	}
	label := line[len("<dt>") : len(line)-len("</dt>")]
	for _, f := range AllFields {
		if f.Label() == label {
			return f, true
		}
	}
	return 0, false
}

// SchemaType names a supported record schema.
type SchemaType string

const (
	// SimpleType emits one table row per test, description only.
	SimpleType SchemaType = "simple"
	// FullType emits a full test-case table with every field.
	FullType SchemaType = "full"
)

// DefaultTestMarker is the annotation that marks a method as a unit test.
const DefaultTestMarker = "@Test"

// Schema configures which fields a record needs and how field values are read.
type Schema struct {
	Type SchemaType
	Name string
	// Required fields must all be present on a test method.
	Required []Field
	// MultiLine accumulates field values until a line containing </dd>;
	// otherwise exactly the line after the label is taken.
	MultiLine bool
	// SkipNonTests drops methods without the test marker silently instead
	// of counting them as failures.
	SkipNonTests bool
	TestMarker   string
}

// Simple is the schema of the one-row-per-test table.
func Simple() Schema {
	return Schema{
		Type:         SimpleType,
		Name:         "Unit test plan (simple)",
		Required:     []Field{Description},
		MultiLine:    true,
		SkipNonTests: true,
		TestMarker:   DefaultTestMarker,
	}
}

// Full is the schema of the detailed per-test table. Methods without the
// test marker are reported as failures unless SkipNonTests is set later.
func Full() Schema {
	return Schema{
		Type:       FullType,
		Name:       "Unit test plan (full)",
		Required:   append([]Field(nil), AllFields...),
		MultiLine:  false,
		TestMarker: DefaultTestMarker,
	}
}

// SchemaByName returns the schema for a loosely spelled name. Unknown names
// yield ok=false.
func SchemaByName(name string) (Schema, bool) {
	switch normalizeType(name) {
	case SimpleType:
		return Simple(), true
	case FullType:
		return Full(), true
	}
	return Schema{}, false
}

func normalizeType(s string) SchemaType {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "simple", "utp-simple", "utp_simple", "row", "rows":
		return SimpleType
	case "full", "latex", "unit-tests-to-latex", "unit_tests_to_latex", "table", "detailed":
		return FullType
	}
	return ""
}

func (s Schema) marker() string {
	if s.TestMarker == "" {
		return DefaultTestMarker
	}
	return s.TestMarker
}
