// Package ui holds the terminal presentation helpers shared by the report
// writers and the CLI.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorEnabled reports whether w is a terminal that should receive colored
// output. NO_COLOR always wins.
func ColorEnabled(w io.Writer) bool {
	if termenv.EnvNoColor() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Styles is the palette used for text reports.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Muted  lipgloss.Style
	Header lipgloss.Style
}

// NewStyles builds a palette bound to w. With color disabled every style
// renders its input unchanged.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Label:  r.NewStyle(),
		Value:  r.NewStyle().Bold(true),
		Good:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Bad:    r.NewStyle().Foreground(lipgloss.Color("9")),
		Muted:  r.NewStyle().Faint(true),
		Header: r.NewStyle().Bold(true).Underline(true),
	}
}

// Plain returns a palette that never emits escape sequences.
func Plain() Styles {
	return NewStyles(io.Discard, false)
}
