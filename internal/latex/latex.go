// Package latex renders extracted test records as LaTeX table markup.
package latex

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/cigate/internal/javadoc"
	"github.com/hyperifyio/cigate/internal/markup"
)

// Template file names looked up in the templates directory.
const (
	BeginTemplate = "UTP_simple_begin.tex"
	EndTemplate   = "UTP_simple_end.tex"
)

// Renderer appends typeset output for a stream of records. Begin is called
// once before the first record and End once after the last one.
type Renderer interface {
	Begin(w io.Writer, title string) error
	Record(w io.Writer, rec javadoc.MethodRecord) error
	End(w io.Writer) error
}

// Templates holds the preamble and postamble wrapped around simple tables.
type Templates struct {
	Begin string
	End   string
}

// LoadTemplates reads the begin and end templates from dir.
func LoadTemplates(dir string) (Templates, error) {
	var t Templates
	if strings.TrimSpace(dir) == "" {
		return t, errors.New("templates: directory not set")
	}
	b, err := os.ReadFile(filepath.Join(dir, BeginTemplate))
	if err != nil {
		return t, fmt.Errorf("read begin template: %w", err)
	}
	e, err := os.ReadFile(filepath.Join(dir, EndTemplate))
	if err != nil {
		return t, fmt.Errorf("read end template: %w", err)
	}
	t.Begin, t.End = string(b), string(e)
	return t, nil
}

// Simple writes one longtable row per test, wrapped in a subsection and the
// preamble/postamble templates. The document must define \testIdentifier
// and the code macro.
type Simple struct {
	CodeMacro string
	Templates Templates
	// Raw leaves description text unescaped.
	Raw bool
}

func (s Simple) Begin(w io.Writer, title string) error {
	if _, err := io.WriteString(w, `\subsection{`+markup.EscapeLaTeX(title)+"}\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, s.Templates.Begin)
	return err
}

func (s Simple) Record(w io.Writer, rec javadoc.MethodRecord) error {
	var b strings.Builder
	b.WriteString("\\hline\n")
	b.WriteString(`\testIdentifier & ` + codeRef(s.macro(), rec.Method) + ` & `)
	b.WriteString(text(rec.Get(javadoc.Description), s.macro(), s.Raw))
	b.WriteString("\\\\\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (s Simple) End(w io.Writer) error {
	_, err := io.WriteString(w, s.Templates.End)
	return err
}

func (s Simple) macro() string { return macroOrDefault(s.CodeMacro) }

// Full writes a standalone tabular block per test with every field. The
// document must define \possibleSectionHeader, \testIdentifier, the code
// macro and load arydshln for \hdashline.
type Full struct {
	CodeMacro string
	Raw       bool
}

func (Full) Begin(io.Writer, string) error { return nil }
func (Full) End(io.Writer) error           { return nil }

func (f Full) Record(w io.Writer, rec javadoc.MethodRecord) error {
	m := macroOrDefault(f.CodeMacro)
	val := func(field javadoc.Field) string { return text(rec.Get(field), m, f.Raw) }

	var b strings.Builder
	b.WriteString("\\possibleSectionHeader\\noindent\n")
	b.WriteString("\\begin{tabular}{p{4.5cm}p{9.5cm}}\n")
	b.WriteString(`\testIdentifier & ` + codeRef(m, rec.Method) + "\\\\\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\multicolumn{2}{p{13.7cm}}{" + val(javadoc.Description) + "} \\\\\n")
	b.WriteString("\\hdashline\n")
	for _, field := range javadoc.AllFields[1:] {
		b.WriteString(`\textbf{` + field.Label() + `} & ` + val(field) + "\\\\\n")
	}
	b.WriteString("\\hline\n")
	b.WriteString("\\end{tabular}\n")
	b.WriteString("\\newline\\newline\\newline\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ForSchema returns the renderer that matches a schema type. raw turns off
// escaping of field text.
func ForSchema(t javadoc.SchemaType, codeMacro string, raw bool, tpl Templates) Renderer {
	if t == javadoc.FullType {
		return Full{CodeMacro: codeMacro, Raw: raw}
	}
	return Simple{CodeMacro: codeMacro, Templates: tpl, Raw: raw}
}

func text(fragment, macro string, raw bool) string {
	if raw {
		return markup.PassLaTeX(fragment, macro)
	}
	return markup.ToLaTeX(fragment, macro)
}

func codeRef(macro, method string) string {
	return `\` + macro + "{" + method + "()}"
}

func macroOrDefault(m string) string {
	m = strings.TrimPrefix(strings.TrimSpace(m), `\`)
	if m == "" {
		return markup.DefaultCodeMacro
	}
	return m
}
