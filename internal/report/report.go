// Package report renders the coaching documents for a terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"intervals-coach/internal/analysis"
)

var (
	titleColor   = color.New(color.FgMagenta, color.Bold)
	headingColor = color.New(color.FgCyan, color.Bold)
	faint        = color.New(color.Faint)
	alarmColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	goodColor    = color.New(color.FgGreen)
)

// JSON writes v as indented JSON followed by a newline
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// severityColor picks the color an alert is printed in
func severityColor(s analysis.Severity) *color.Color {
	if s == analysis.SeverityAlarm {
		return alarmColor
	}
	return warnColor
}

// formColor colors a TSB value: fresh is green, deep fatigue is red
func formColor(tsb float64) *color.Color {
	switch {
	case tsb > 5:
		return goodColor
	case tsb < -30:
		return alarmColor
	case tsb < -10:
		return warnColor
	}
	return color.New(color.Reset)
}

// printer accumulates the first write error so renderers stay linear
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) title(s string) {
	p.printf("%s\n%s\n", titleColor.Sprint(s), faint.Sprint(strings.Repeat("=", len(s))))
}

func (p *printer) heading(s string) {
	p.printf("\n%s\n", headingColor.Sprint(s))
}

// row prints an aligned label/value line, skipping empty values
func (p *printer) row(label, value string) {
	if value == "" {
		return
	}
	p.printf("  %s %s\n", faint.Sprint(padRight(label, 24)), value)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// num formats an optional value, "-" when absent
func num(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
