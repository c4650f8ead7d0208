package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
)

// Format selects how notices are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

// Printer renders notices to a writer.
type Printer struct {
	w       io.Writer
	format  Format
	verbose bool
	quiet   bool
	styles  styles
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// Verbose includes debug notices.
func Verbose(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.verbose = enabled
	}
}

// Quiet limits output to error notices.
func Quiet(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.quiet = enabled
	}
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format Format, opts ...PrinterOption) *Printer {
	p := &Printer{
		w:      w,
		format: format,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print renders the visible subset of notices.
func (p *Printer) Print(notices []Notice) error {
	visible := p.filter(notices)

	switch p.format {
	case FormatJSON:
		return p.printJSON(visible)
	case FormatYAML:
		return p.printYAML(visible)
	default:
		return p.printText(visible)
	}
}

func (p *Printer) filter(notices []Notice) []Notice {
	out := make([]Notice, 0, len(notices))
	for _, n := range notices {
		if p.quiet && n.Severity != SeverityError {
			continue
		}
		if !p.verbose && n.Severity == SeverityDebug {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (p *Printer) printText(notices []Notice) error {
	for _, n := range notices {
		tag := p.styles.forSeverity(n.Severity).Render("[" + string(n.Severity) + "]")
		if _, err := fmt.Fprintf(p.w, "%s %s\n", tag, n.Message); err != nil {
			return fmt.Errorf("failed to write notice: %w", err)
		}
	}
	return nil
}

func (p *Printer) printJSON(notices []Notice) error {
	data, err := json.MarshalIndent(notices, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notices: %w", err)
	}
	if _, err := fmt.Fprintln(p.w, string(data)); err != nil {
		return fmt.Errorf("failed to write notices: %w", err)
	}
	return nil
}

func (p *Printer) printYAML(notices []Notice) error {
	data, err := yaml.Marshal(notices)
	if err != nil {
		return fmt.Errorf("failed to marshal notices: %w", err)
	}
	if _, err := p.w.Write(data); err != nil {
		return fmt.Errorf("failed to write notices: %w", err)
	}
	return nil
}
