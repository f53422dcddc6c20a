// Package termui prints analysis results to a terminal.
package termui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

type Printer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

// New builds a printer using a glamour standard style ("dark", "light", "notty", ...).
func New(out io.Writer, style string, width int) (*Printer, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &Printer{out: out, renderer: r}, nil
}

// Suggestion renders the model's markdown. Rendering failures fall back to the raw text.
func (p *Printer) Suggestion(text string) {
	fmt.Fprintln(p.out, successStyle.Render("Analysis completed"))
	rendered, err := p.renderer.Render(text)
	if err != nil {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprint(p.out, rendered)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.out, warnStyle.Render(msg))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.out, errorStyle.Render(msg))
}
