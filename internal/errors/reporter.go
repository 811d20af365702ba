package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats diagnostics against their source text with caret
// markers, one finding per block.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter creates a reporter for one source file.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders one diagnostic with its source line and marker.
func (r *Reporter) Format(d Diagnostic) string {
	var result strings.Builder

	kindColor := r.gravityColor(d.Gravity)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: kind: message (the kind is colored by gravity)
	result.WriteString(fmt.Sprintf("%s: %s\n", kindColor(string(d.Kind)), d.Message))

	lineNumberWidth := r.lineNumberWidth(d.Start.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	// Location line: --> filename:line:column
	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), r.filename, d.Start.Line, d.Start.Column))

	if d.ProcName != "" {
		result.WriteString(fmt.Sprintf("%s %s in procedure %s\n",
			indent, dim("│"), d.ProcName))
	}

	if d.Start.Line >= 1 && d.Start.Line <= len(r.lines) {
		lineContent := r.lines[d.Start.Line-1]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, d.Start.Line)),
			dim("│"),
			lineContent))

		length := 1
		if d.End.Line == d.Start.Line && d.End.Column > d.Start.Column {
			length = d.End.Column - d.Start.Column
		}
		marker := strings.Repeat(" ", maxInt(0, d.Start.Column-1)) +
			kindColor(strings.Repeat("^", length))
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), marker))
	}

	gravityNote := "suspected"
	if d.Gravity == GravityHigh {
		gravityNote = "proven on every analyzed path"
	}
	result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), dim(gravityNote)))
	result.WriteString("\n")
	return result.String()
}

func (r *Reporter) gravityColor(g Gravity) func(...interface{}) string {
	if g == GravityHigh {
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
	return color.New(color.FgYellow, color.Bold).SprintFunc()
}

func (r *Reporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
