// Package markup converts the small HTML fragments found in Javadoc field
// values into typesetting markup or plain text.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// DefaultCodeMacro is the LaTeX command wrapped around inline code. The
// including document is expected to define it, e.g.
// \newcommand{\java}[1]{\mintinline{java}{#1}}.
const DefaultCodeMacro = "java"

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	"\u00a0", "~",
)

// EscapeLaTeX escapes characters that have a meaning in LaTeX text mode.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// ToLaTeX renders an HTML fragment as LaTeX. <code> elements become
// \macro{...} with their content left verbatim; other tags are dropped but
// their text is kept; entities are decoded and text outside code is
// escaped. Whitespace runs collapse to a single space.
func ToLaTeX(fragment, macro string) string {
	return toLaTeX(fragment, macro, EscapeLaTeX)
}

// PassLaTeX is ToLaTeX without escaping the text outside code, for pages
// whose authors write LaTeX such as $x$ or \emph{} in their Javadoc.
func PassLaTeX(fragment, macro string) string {
	return toLaTeX(fragment, macro, func(s string) string { return s })
}

func toLaTeX(fragment, macro string, escape func(string) string) string {
	if macro == "" {
		macro = DefaultCodeMacro
	}
	var b strings.Builder
	walk(fragment, func(text string, inCode bool) {
		if inCode {
			b.WriteString(text)
			return
		}
		b.WriteString(escape(text))
	}, func(open bool) {
		if open {
			b.WriteString(`\` + macro + "{")
		} else {
			b.WriteString("}")
		}
	})
	return strings.TrimSpace(collapseSpaces(b.String()))
}

// ToText renders an HTML fragment as plain text with entities decoded.
func ToText(fragment string) string {
	var b strings.Builder
	walk(fragment, func(text string, _ bool) {
		b.WriteString(strings.ReplaceAll(text, "\u00a0", " "))
	}, nil)
	return strings.TrimSpace(collapseSpaces(b.String()))
}

// walk tokenizes fragment, reporting text runs and the outermost
// <code> boundaries. Unclosed code elements are closed at the end.
func walk(fragment string, text func(s string, inCode bool), code func(open bool)) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	depth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			for ; depth > 0; depth-- {
				if code != nil && depth == 1 {
					code(false)
				}
			}
			return
		case html.TextToken:
			text(string(z.Text()), depth > 0)
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "code":
				if depth == 0 && code != nil {
					code(true)
				}
				depth++
			case "br", "p", "li":
				text(" ", depth > 0)
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				text(" ", depth > 0)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "code" && depth > 0 {
				depth--
				if depth == 0 && code != nil {
					code(false)
				}
			}
		}
	}
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}
