// Package tui provides a terminal browser for the voicesheet timesheet.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/voicesheet/internal/cli"
	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/timeutil"
	"github.com/xolan/voicesheet/internal/tui/ui"
)

// Fixed widths of every column but Task, in entry.Columns order
var columnWidths = []int{8, 9, 10, 10, 14}

const (
	minTaskWidth = 16
	// title, path, table header, total and status lines plus padding
	chromeHeight = 10
)

// entriesLoadedMsg carries the result of reading the store
type entriesLoadedMsg struct {
	entries []entry.Entry
	err     error
}

// Model is the root TUI model
type Model struct {
	store storage.Store

	width    int
	height   int
	showHelp bool
	loaded   bool

	entries []entry.Entry
	err     error
	status  string

	table table.Model
	help  help.Model

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a browser over store colored with theme
func New(store storage.Store, theme string) Model {
	themeProvider := ui.NewThemeProvider(theme)
	styles := themeProvider.Styles()

	t := table.New(
		table.WithColumns(columns(0)),
		table.WithFocused(true),
		table.WithHeight(5),
	)
	t.SetStyles(styles.TableStyles())

	return Model{
		store:         store,
		table:         t,
		help:          help.New(),
		themeProvider: themeProvider,
		styles:        styles,
		keys:          ui.DefaultKeyMap(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	entries, err := m.store.ReadAll()
	return entriesLoadedMsg{entries: entries, err: err}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.status = "Reloading..."
			return m, m.load

		case key.Matches(msg, m.keys.NextTheme):
			m.themeProvider.NextTheme()
			m.applyTheme()
			return m, nil

		case key.Matches(msg, m.keys.PrevTheme):
			m.themeProvider.PreviousTheme()
			m.applyTheme()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(max(m.height-chromeHeight, 3))
		return m, nil

	case entriesLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		m.entries = msg.entries
		m.table.SetRows(rows(msg.entries))
		if m.table.Cursor() >= len(msg.entries) {
			m.table.GotoBottom()
		}
		m.status = fmt.Sprintf("Loaded %d %s", len(msg.entries), cli.Pluralize(len(msg.entries)))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) applyTheme() {
	m.styles = m.themeProvider.Styles()
	m.table.SetStyles(m.styles.TableStyles())
	// The id is what [tui] theme expects in the config file
	m.status = fmt.Sprintf("Theme: %s (%s)", m.themeProvider.CurrentDisplayName(), m.themeProvider.CurrentName())
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Voice Timesheet"))
	b.WriteString("\n")
	b.WriteString(m.styles.Path.Render(m.store.Path()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
	case !m.loaded:
		b.WriteString(m.styles.Empty.Render("Reading timesheet..."))
	case len(m.entries) == 0:
		b.WriteString(m.styles.Empty.Render(cli.MsgEmptyTimesheet))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.renderTotal())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		m.help.ShowAll = true
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
	}

	return m.styles.App.Render(b.String())
}

func (m Model) renderTotal() string {
	total, skipped := cli.TotalMinutes(m.entries)
	line := fmt.Sprintf("%d %s, total %s", len(m.entries), cli.Pluralize(len(m.entries)), timeutil.FormatElapsed(total))
	if skipped > 0 {
		line += fmt.Sprintf(" (%d without valid times)", skipped)
	}
	return m.styles.Total.Render(line)
}

// renderStatusBar renders the status message and the short key help
func (m Model) renderStatusBar() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, m.renderKeyHelp(b.Help().Key, b.Help().Desc))
	}

	content := strings.Join(parts, "  ")
	if m.status != "" {
		content = m.status + "  " + content
	}

	padding := m.width - lipgloss.Width(content) - 4
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// ThemeProvider returns the provider the model is colored from
func (m Model) ThemeProvider() *ui.ThemeProvider {
	return m.themeProvider
}

// columns sizes the Task column to whatever width the fixed columns leave
func columns(width int) []table.Column {
	cols := make([]table.Column, len(entry.Columns))
	used := 0
	for i, w := range columnWidths {
		cols[i] = table.Column{Title: entry.Columns[i], Width: w}
		used += w
	}

	// app padding plus one cell of padding either side of every column
	task := width - used - 4 - 2*len(cols)
	cols[len(cols)-1] = table.Column{Title: entry.Columns[len(cols)-1], Width: max(task, minTaskWidth)}
	return cols
}

func rows(entries []entry.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row(e.Row())
	}
	return rows
}

// Run starts the browser and blocks until the user quits
func Run(store storage.Store, theme string) error {
	p := tea.NewProgram(New(store, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
