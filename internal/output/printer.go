// Package output renders smart bin data to a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors unless NO_COLOR is set or TERM is dumb
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors based on mode and environment
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return os.Getenv("TERM") != "dumb"
	}
}

// Printer writes status messages for binctl
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer on stdout/stderr
func NewPrinter(mode ColorMode) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, ResolveColors(mode))
}

// NewPrinterWithWriters creates a printer on the given writers
func NewPrinterWithWriters(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out returns the writer for regular output
func (p *Printer) Out() io.Writer {
	return p.out
}

// UseColors reports whether colored output is enabled
func (p *Printer) UseColors() bool {
	return p.useColors
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...interface{}) {
	newColor(p.useColors, color.FgCyan).Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	if p.useColors {
		newColor(true, color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		newColor(true, color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	writeHeader(p.out, title, p.useColors)
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func writeHeader(w io.Writer, title string, useColors bool) {
	if useColors {
		newColor(true, color.FgWhite, color.Bold).Fprintf(w, "\n%s\n", title)
		newColor(true, color.FgWhite).Fprintf(w, "%s\n", repeatChar('─', len([]rune(title))))
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", title, repeatChar('-', len([]rune(title))))
}

func repeatChar(char rune, count int) string {
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
