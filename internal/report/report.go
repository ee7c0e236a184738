// Package report renders the outcome of a validation or packaging run for
// the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - keeping it minimal and accessible.
var (
	colorPrimary = lipgloss.Color("39")  // Blue
	colorSuccess = lipgloss.Color("34")  // Green
	colorWarning = lipgloss.Color("214") // Orange
	colorError   = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginLeft(2)
)

// Report collects the findings of one run for rendering.
type Report struct {
	title    string
	errors   []string
	warnings []string
}

// New creates a report titled after the package being processed.
func New(title string) *Report {
	return &Report{title: title}
}

// AddError records a fatal finding.
func (r *Report) AddError(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

// AddWarning records a non-fatal finding.
func (r *Report) AddWarning(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any fatal finding was recorded.
func (r *Report) HasErrors() bool {
	return len(r.errors) > 0
}

// Render writes the styled report. With no findings it prints a single
// success line.
func (r *Report) Render(w io.Writer) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.title))
	b.WriteString("\n")

	for _, warning := range r.warnings {
		b.WriteString(warningStyle.Render("warning:"))
		b.WriteString(" ")
		b.WriteString(warning)
		b.WriteString("\n")
	}
	for _, err := range r.errors {
		b.WriteString(errorStyle.Render("error:"))
		b.WriteString(" ")
		b.WriteString(err)
		b.WriteString("\n")
	}

	switch {
	case len(r.errors) > 0:
		summary := fmt.Sprintf("%d error(s), %d warning(s)", len(r.errors), len(r.warnings))
		b.WriteString(detailStyle.Render(summary))
		b.WriteString("\n")
	case len(r.warnings) > 0:
		b.WriteString(successStyle.Render("OK"))
		b.WriteString(detailStyle.Render(fmt.Sprintf("with %d warning(s)", len(r.warnings))))
		b.WriteString("\n")
	default:
		b.WriteString(successStyle.Render("OK"))
		b.WriteString("\n")
	}

	fmt.Fprint(w, b.String())
}
