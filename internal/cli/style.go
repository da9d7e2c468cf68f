package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders text output. Colors are only emitted when the writer is
// a color-capable terminal.
type styles struct {
	pass    lipgloss.Style
	fail    lipgloss.Style
	skipped lipgloss.Style
	title   lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		pass:    r.NewStyle().Foreground(lipgloss.Color("46")),
		fail:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		skipped: r.NewStyle().Foreground(lipgloss.Color("245")),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
