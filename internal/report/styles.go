package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	debug lipgloss.Style
	info  lipgloss.Style
	error lipgloss.Style
}

// newStyles builds severity styles bound to the renderer of the output
// writer, so non-terminal output stays plain.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		// Subtle text styling
		debug: r.NewStyle().
			Foreground(lipgloss.Color("#666666")),

		info: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),

		// Error styling
		error: r.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true),
	}
}

func (s styles) forSeverity(severity Severity) lipgloss.Style {
	switch severity {
	case SeverityDebug:
		return s.debug
	case SeverityError:
		return s.error
	default:
		return s.info
	}
}
