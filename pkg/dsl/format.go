package dsl

import (
	"strings"
	"unicode/utf8"
)

// Format prints pools back as source. Every vertex gets its own definition
// statement in index order, followed by one statement per link in insertion
// order. Translating the result reproduces both pools exactly.
func Format(vp *VertexPool, lp *LinkPool) string {
	var b strings.Builder
	for _, v := range vp.Vertices() {
		b.WriteByte('@')
		b.WriteString(v.Name)
		if v.Framed {
			b.WriteString("[" + v.Text + "]")
		} else {
			b.WriteString("(" + v.Text + ")")
		}
		b.WriteString(";\n")
	}
	for _, l := range lp.Links() {
		b.WriteString(l.Left)
		b.WriteByte(' ')
		b.WriteString(ArrowString(l.Polarity, l.Delayed))
		b.WriteByte(' ')
		b.WriteString(l.Right)
		b.WriteString(";\n")
	}
	return b.String()
}

// ArrowString returns the arrow spelling for a polarity and delay flag.
func ArrowString(p Polarity, delayed bool) string {
	s := p.Symbol() + ">"
	if delayed {
		s = "||" + s
	}
	return s
}

// LineCol converts a byte offset of src into a 1-based line and column.
// Columns count runes. Offsets past the end map to the position just after
// the last character.
func LineCol(src string, offset int) (line, col int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	start := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, utf8.RuneCountInString(src[start:offset]) + 1
}
