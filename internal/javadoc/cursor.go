package javadoc

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Cursor walks a documentation source one line at a time. It owns the
// current line and the read position; nothing else in the package keeps
// parsing state.
type Cursor struct {
	r     *bufio.Reader
	line  string
	n     int
	eof   bool
	ended bool
}

// NewCursor wraps r. A leading UTF-8 byte order mark is dropped so the
// doctype check sees the first real characters.
func NewCursor(r io.Reader) *Cursor {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &Cursor{r: bufio.NewReader(transform.NewReader(r, dec))}
}

// Advance reads the next line, strips leading spaces and the line
// terminator, and makes it the current line. It returns false once the
// input is exhausted; blank lines in the middle of the input are returned
// as "" with ok set.
func (c *Cursor) Advance() (string, bool) {
	if c.eof {
		c.line, c.ended = "", true
		return "", false
	}
	raw, err := c.r.ReadString('\n')
	if err != nil && raw == "" {
		c.eof = true
		c.line, c.ended = "", true
		return "", false
	}
	if err != nil {
		// Final line without a terminator; the next call reports EOF.
		c.eof = true
	}
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	c.line = strings.TrimLeft(raw, " ")
	c.n++
	return c.line, true
}

// Line returns the current line.
func (c *Cursor) Line() string { return c.line }

// LineNumber is the 1-based number of the current line, 0 before the
// first Advance.
func (c *Cursor) LineNumber() int { return c.n }

// Done reports whether the input is exhausted.
func (c *Cursor) Done() bool { return c.ended }
