package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// styles used by the inspect report.
type styles struct {
	File  lipgloss.Style
	Table lipgloss.Style
	Count lipgloss.Style
	Total lipgloss.Style
	Error lipgloss.Style
	Muted lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{File: plain, Table: plain, Count: plain, Total: plain, Error: plain, Muted: plain}
	}
	return styles{
		File:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Table: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Count: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Total: lipgloss.NewStyle().Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// useColor reports whether styled output should be written to f.
// NO_COLOR disables color regardless of the terminal.
func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
