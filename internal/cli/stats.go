package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/xolan/voicesheet/internal/filter"
	"github.com/xolan/voicesheet/internal/stats"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/timeutil"
)

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(20)

// ShowStats prints totals for the rows f matches, then per-day and per-task tables
func ShowStats(w io.Writer, store storage.Store, f *filter.Filter) error {
	entries, ok, err := selectEntries(w, store, f)
	if err != nil || !ok {
		return err
	}

	s := stats.CalculateStatistics(entries)
	_, _ = fmt.Fprintln(w, heading("Statistics", store, f))
	_, _ = fmt.Fprintln(w)
	writeStat(w, "Entries:", strconv.Itoa(s.EntryCount))
	writeStat(w, "Total time:", timeutil.FormatElapsed(s.TotalMinutes))
	writeStat(w, "Days with entries:", strconv.Itoa(s.DaysWithEntries))
	writeStat(w, "Average per day:", timeutil.FormatElapsed(int(s.AverageMinutesPerDay+0.5)))
	if s.Skipped > 0 {
		writeStat(w, "Without valid times:", strconv.Itoa(s.Skipped))
	}

	days := stats.CalculateDayBreakdown(entries)
	if len(days) > 0 {
		rows := make([][]string, len(days))
		for i, d := range days {
			rows[i] = []string{d.Date, d.Day, strconv.Itoa(d.EntryCount), timeutil.FormatElapsed(d.TotalMinutes)}
		}
		_, _ = fmt.Fprintln(w, "\nBy day")
		_, _ = fmt.Fprintln(w, renderTable([]string{"Date", "Day", "Entries", "Total"}, rows, 3))
	}

	tasks := stats.CalculateTaskBreakdown(entries)
	if len(tasks) > 0 {
		rows := make([][]string, len(tasks))
		for i, t := range tasks {
			rows[i] = []string{t.Task, strconv.Itoa(t.EntryCount), timeutil.FormatElapsed(t.TotalMinutes)}
		}
		_, _ = fmt.Fprintln(w, "\nBy task")
		_, _ = fmt.Fprintln(w, renderTable([]string{"Task", "Entries", "Total"}, rows, 2))
	}
	return nil
}

func writeStat(w io.Writer, label, value string) {
	_, _ = fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), value)
}

// renderTable draws rows in the timesheet's table style with totalCol highlighted
func renderTable(headers []string, rows [][]string, totalCol int) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == totalCol:
				return elapsedStyle
			default:
				return cellStyle
			}
		}).
		String()
}
