// Package cli provides the presentation layer for voicesheet's terminal output.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/filter"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/timeutil"
)

// Messages printed when there is nothing to show
const (
	MsgNoTimesheet    = "No timesheet found. Record some entries first."
	MsgEmptyTimesheet = "Timesheet is empty. Record some entries first."
	MsgNoMatches      = "No entries match the filter."
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// elapsedColumn is the index of "Time Elapsed" in entry.Columns
const elapsedColumn = 4

// RenderTimesheet renders entries as a bordered table under the column header
func RenderTimesheet(entries []entry.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = e.Row()
	}

	return renderTable(entry.Columns, rows, elapsedColumn)
}

// TotalMinutes sums the elapsed time of entries whose start and end times parse.
// Returns the total and how many entries were skipped.
func TotalMinutes(entries []entry.Entry) (total, skipped int) {
	for _, e := range entries {
		minutes, err := timeutil.ElapsedMinutes(e.StartTime, e.EndTime)
		if err != nil {
			skipped++
			continue
		}
		total += minutes
	}
	return total, skipped
}

// FormatEntry formats an entry for one-line display
// Example: "03-05-24 09:00 AM-11:00 AM Taxes (2 hrs)"
func FormatEntry(e entry.Entry) string {
	return fmt.Sprintf("%s %s-%s %s (%s)", e.Date, e.StartTime, e.EndTime, e.Task, e.TimeElapsed)
}

// Pluralize returns "entry"/"entries" style plurals for count
func Pluralize(count int) string {
	if count == 1 {
		return "entry"
	}
	return "entries"
}

// ShowTimesheet prints every row of store as a table, or a message when
// the store doesn't exist yet or holds no rows.
func ShowTimesheet(w io.Writer, store storage.Store) error {
	return ShowFiltered(w, store, nil)
}

// ShowFiltered is ShowTimesheet limited to the rows f matches.
// A nil or empty f shows everything.
func ShowFiltered(w io.Writer, store storage.Store, f *filter.Filter) error {
	entries, ok, err := selectEntries(w, store, f)
	if err != nil || !ok {
		return err
	}

	_, _ = fmt.Fprintln(w, heading("Timesheet", store, f))
	_, _ = fmt.Fprintln(w, RenderTimesheet(entries))

	total, skipped := TotalMinutes(entries)
	_, _ = fmt.Fprintf(w, "%d %s, total %s", len(entries), Pluralize(len(entries)), timeutil.FormatElapsed(total))
	if skipped > 0 {
		_, _ = fmt.Fprintf(w, " (%d without valid times)", skipped)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

// selectEntries reads store and applies f. When there is nothing to show it
// prints the reason to w and returns ok == false.
func selectEntries(w io.Writer, store storage.Store, f *filter.Filter) ([]entry.Entry, bool, error) {
	if _, err := os.Stat(store.Path()); errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(w, MsgNoTimesheet)
		return nil, false, nil
	}

	entries, err := store.ReadAll()
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, MsgEmptyTimesheet)
		return nil, false, nil
	}

	entries = filter.FilterEntries(entries, f)
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, MsgNoMatches)
		return nil, false, nil
	}
	return entries, true, nil
}

func heading(title string, store storage.Store, f *filter.Filter) string {
	h := "\n" + title + ": " + store.Path()
	if f != nil && !f.IsEmpty() {
		h += " (" + DescribeFilter(f) + ")"
	}
	return h
}

// DescribeFilter renders f for headings, e.g. `01-15-24 to 01-21-24, task contains "review"`
func DescribeFilter(f *filter.Filter) string {
	parts := []string{}
	if !f.Range.IsZero() {
		parts = append(parts, f.Range.String())
	}
	if f.Keyword != "" {
		parts = append(parts, fmt.Sprintf("task contains %q", f.Keyword))
	}
	return strings.Join(parts, ", ")
}
