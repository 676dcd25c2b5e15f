// Package srcloc maps byte offsets in a statement's text to line and
// column positions and renders positioned diagnostics.
package srcloc

import (
	"fmt"
	"sort"
	"strings"
)

type Position struct {
	Pos    int `json:"pos"`    // Byte offset into the statement text.
	Line   int `json:"line"`   // 1-based line number.
	Column int `json:"column"` // 1-based column number.
}

func (p Position) IsValid() bool { return p.Pos >= 0 }

// Text is a statement's source text with line offsets precomputed so that
// repeated position lookups are cheap.
type Text struct {
	src   string
	lines []int
}

func NewText(src string) *Text {
	var lines []int
	line := 0
	for offset, b := range []byte(src) {
		if line >= 0 {
			lines = append(lines, line)
		}
		line = -1
		if b == '\n' {
			line = offset + 1
		}
	}
	if len(lines) == 0 {
		lines = []int{0}
	}
	return &Text{src: src, lines: lines}
}

func (t *Text) String() string { return t.src }

func (t *Text) Position(pos int) Position {
	if pos < 0 || pos > len(t.src) {
		return Position{-1, -1, -1}
	}
	i := searchLine(t.lines, pos)
	return Position{
		Pos:    pos,
		Line:   i + 1,
		Column: pos - t.lines[i] + 1,
	}
}

// LineOf returns the full text of the line containing pos, without its
// trailing newline.
func (t *Text) LineOf(pos int) string {
	i := searchLine(t.lines, pos)
	start := t.lines[i]
	end := len(t.src)
	if i+1 < len(t.lines) {
		end = t.lines[i+1]
	}
	line := t.src[start:end]
	return strings.TrimSuffix(line, "\n")
}

func searchLine(lines []int, offset int) int {
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i
}

// Format renders msg with the offending source line and an underline
// spanning [pos, end], or a caret when end is invalid.
func (t *Text) Format(msg string, pos, end int) string {
	start := t.Position(pos)
	if !start.IsValid() {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	line := t.LineOf(pos)
	fmt.Fprintf(&b, " at line %d, column %d:\n%s\n", start.Line, start.Column, line)
	if stop := t.Position(end); stop.IsValid() && end > pos {
		formatSpanError(&b, line, start, stop)
	} else {
		formatPointError(&b, start)
	}
	return b.String()
}

func formatSpanError(b *strings.Builder, line string, start, end Position) {
	b.WriteString(strings.Repeat(" ", start.Column-1))
	n := end.Column - start.Column + 1
	if start.Line != end.Line {
		n = len(line) - start.Column + 1
	}
	if n < 1 {
		n = 1
	}
	b.WriteString(strings.Repeat("~", n))
}

func formatPointError(b *strings.Builder, start Position) {
	col := start.Column - 1
	for k := 0; k < col; k++ {
		if k >= col-4 && k != col-1 {
			b.WriteByte('=')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("^ ===")
}
