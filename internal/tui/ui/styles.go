package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used by the timesheet browser
type Styles struct {
	App   lipgloss.Style
	Title lipgloss.Style
	Path  lipgloss.Style

	// Table
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style

	Total lipgloss.Style
	Empty lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	Error lipgloss.Style
}

// palette maps semantic roles to colors
type palette struct {
	primary   lipgloss.TerminalColor
	secondary lipgloss.TerminalColor
	accent    lipgloss.TerminalColor
	muted     lipgloss.TerminalColor
	errColor  lipgloss.TerminalColor
	fg        lipgloss.TerminalColor
	bg        lipgloss.TerminalColor
	selection lipgloss.TerminalColor
}

// DefaultStyles returns styles on the 256-color palette, for terminals without a tint
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:   lipgloss.Color("99"),
		secondary: lipgloss.Color("39"),
		accent:    lipgloss.Color("212"),
		muted:     lipgloss.Color("240"),
		errColor:  lipgloss.Color("196"),
		fg:        lipgloss.Color("252"),
		bg:        lipgloss.Color("236"),
		selection: lipgloss.Color("237"),
	})
}

// NewStylesFromRegistry maps the current tint onto the browser:
// purple for titles and headers, cyan for keys, bright purple for totals.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:   r.Purple(),
		secondary: r.Cyan(),
		accent:    r.BrightPurple(),
		muted:     r.BrightBlack(),
		errColor:  r.Red(),
		fg:        r.Fg(),
		bg:        r.Bg(),
		selection: r.BrightBlack(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		Path: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginBottom(1),

		Header: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.muted).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Foreground(p.fg).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(p.selection).
			Bold(true),

		Total: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			MarginTop(1),
		Empty: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		Error: lipgloss.NewStyle().
			Foreground(p.errColor),
	}
}

// TableStyles adapts the styles for a bubbles table
func (s Styles) TableStyles() table.Styles {
	return table.Styles{
		Header:   s.Header,
		Cell:     s.Cell,
		Selected: s.Selected,
	}
}
