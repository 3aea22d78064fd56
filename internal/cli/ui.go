package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// stdout receives all user-facing output.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// Link polarity colours, matching the rendered diagrams.
var (
	colorPositive = lipgloss.Color("#08ABED")
	colorNegative = lipgloss.Color("#C73544")
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleLocation = lipgloss.NewStyle().Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Source Errors
// =============================================================================

// sourceLocation renders "path:line:col" for errors tied to a position in
// src, and just path otherwise.
func sourceLocation(path, src string, err error) string {
	pos := errors.Position(err)
	if pos == errors.NoPos {
		return path
	}
	line, col := dsl.LineCol(src, pos)
	return fmt.Sprintf("%s:%d:%d", path, line, col)
}

// printSourceError prints err located in src, followed by the offending
// line and a caret under the column.
func printSourceError(path, src string, err error) {
	loc := sourceLocation(path, src, err)
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s %s", msg, StyleDim.Render("["+string(code)+"]"))
	}
	printError("%s: %s", styleLocation.Render(loc), msg)

	pos := errors.Position(err)
	if pos == errors.NoPos {
		return
	}
	line, col := dsl.LineCol(src, pos)
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return
	}
	text := lines[line-1]
	fmt.Fprintln(stdout, "  "+StyleDim.Render(text))
	fmt.Fprintln(stdout, "  "+strings.Repeat(" ", max(col-1, 0))+styleIconError.Render("^"))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints the pipeline statistics on a single line.
func printStats(s pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d vertices", s.VertexCount),
		fmt.Sprintf("%d links", s.LinkCount),
	}
	if s.ArcCount > 0 {
		parts = append(parts, fmt.Sprintf("%d arcs", s.ArcCount))
	}
	if s.Sweeps > 0 {
		parts = append(parts, fmt.Sprintf("%d sweeps", s.Sweeps))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	b.WriteString(StyleDim.Render(" · ") + statusStyle.Render(status))
	fmt.Fprintln(stdout, b.String())

	if s.Fallback != "" {
		printWarning("stress layout did not converge, used fallback positions: %s", s.Fallback)
	}
}
