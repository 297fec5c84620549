package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("204")
	colorCyan   = lipgloss.Color("14")
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	// StylePath styles file paths and bundle names.
	StylePath   = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
)

// Output handles styled terminal output.
type Output struct {
	noColor bool
	out     io.Writer
	err     io.Writer
}

// NewOutput creates a new Output writing to stdout and stderr.
func NewOutput() *Output {
	return &Output{out: os.Stdout, err: os.Stderr}
}

// NewOutputTo creates an Output writing to the given writers. Used by tests.
func NewOutputTo(out, errOut io.Writer) *Output {
	return &Output{out: out, err: errOut}
}

// SetNoColor disables colored output.
func (o *Output) SetNoColor(v bool) {
	o.noColor = v
}

// NoColor reports whether colored output is disabled.
func (o *Output) NoColor() bool {
	return o.noColor
}

// Success prints a success message with a green checkmark.
func (o *Output) Success(format string, args ...any) {
	o.status(o.out, "OK", "✓", styleSuccess, format, args...)
}

// Error prints an error message with a red X.
func (o *Output) Error(format string, args ...any) {
	o.status(o.err, "FAIL", "✗", styleError, format, args...)
}

// Warning prints a warning message with a yellow exclamation.
func (o *Output) Warning(format string, args ...any) {
	o.status(o.err, "WARN", "!", styleWarning, format, args...)
}

func (o *Output) status(w io.Writer, plain, symbol string, style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(w, "%s %s\n", plain, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", style.Render(symbol), msg)
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Println prints a line to stdout.
func (o *Output) Println(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Path renders a path in the noun style unless color is off.
func (o *Output) Path(p string) string {
	if o.noColor {
		return p
	}
	return StylePath.Render(p)
}

// Table prints a simple aligned table.
func (o *Output) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
	}
	fmt.Fprintln(o.out, o.style(styleHeader, strings.TrimRight(header.String(), " ")))

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(o.out, o.style(styleDim, strings.Join(seps, "  ")))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(o.out, strings.TrimRight(line.String(), " "))
	}
}

func (o *Output) style(s lipgloss.Style, text string) string {
	if o.noColor {
		return text
	}
	return s.Render(text)
}
