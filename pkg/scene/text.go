package scene

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/loopline/pkg/geom"
)

const (
	fontCharWidth = 0.55
	lineSpacing   = 1.2
	boxPadX       = 10.0
	boxPadY       = 5.0
)

// TextWidth estimates the rendered width of s at the given font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontCharWidth * fontSize
}

// LineHeight returns the baseline distance between wrapped lines.
func LineHeight(fontSize float64) float64 { return fontSize * lineSpacing }

// Wrap breaks text into lines no wider than maxWidth. Explicit newlines
// always break; a word wider than maxWidth gets a line of its own.
func Wrap(text string, maxWidth, fontSize float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if TextWidth(line+" "+w, fontSize) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

// TextBox returns the box drawn around lines centred on c. An empty box
// still has the height of one line.
func TextBox(c geom.Point, lines []string, fontSize float64) geom.Rect {
	w := 0.0
	for _, l := range lines {
		w = max(w, TextWidth(l, fontSize))
	}
	n := max(1, len(lines))
	h := float64(n) * LineHeight(fontSize)
	return geom.RectAround(c, w+2*boxPadX, h+2*boxPadY)
}
