// Package stats aggregates timesheet rows into totals per day and per task.
package stats

import (
	"sort"
	"strings"

	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/timeutil"
)

// Statistics contains aggregated statistics for a set of entries.
// Entries whose start or end time doesn't parse are counted in Skipped
// and left out of every total.
type Statistics struct {
	EntryCount           int
	TotalMinutes         int
	Skipped              int
	DaysWithEntries      int
	AverageMinutesPerDay float64
}

// DayBreakdown contains the totals of one Date
type DayBreakdown struct {
	Date         string
	Day          string
	TotalMinutes int
	EntryCount   int
}

// TaskBreakdown contains the totals of one task
type TaskBreakdown struct {
	Task         string
	TotalMinutes int
	EntryCount   int
}

// CalculateStatistics computes totals over entries. The average is per day
// that has at least one timed entry.
func CalculateStatistics(entries []entry.Entry) Statistics {
	stats := Statistics{EntryCount: len(entries)}
	days := make(map[string]bool)

	for _, e := range entries {
		minutes, err := timeutil.ElapsedMinutes(e.StartTime, e.EndTime)
		if err != nil {
			stats.Skipped++
			continue
		}
		stats.TotalMinutes += minutes
		days[strings.TrimSpace(e.Date)] = true
	}

	stats.DaysWithEntries = len(days)
	if stats.DaysWithEntries > 0 {
		stats.AverageMinutesPerDay = float64(stats.TotalMinutes) / float64(stats.DaysWithEntries)
	}
	return stats
}

// CalculateDayBreakdown groups timed entries by Date, in calendar order.
// Dates that don't parse follow the rest in first-seen order.
func CalculateDayBreakdown(entries []entry.Entry) []DayBreakdown {
	byDate := make(map[string]*DayBreakdown)
	var order []string

	for _, e := range entries {
		minutes, err := timeutil.ElapsedMinutes(e.StartTime, e.EndTime)
		if err != nil {
			continue
		}
		key := strings.TrimSpace(e.Date)
		b, ok := byDate[key]
		if !ok {
			b = &DayBreakdown{Date: key, Day: e.Day}
			byDate[key] = b
			order = append(order, key)
		}
		b.TotalMinutes += minutes
		b.EntryCount++
	}

	breakdowns := make([]DayBreakdown, 0, len(order))
	for _, key := range order {
		breakdowns = append(breakdowns, *byDate[key])
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		a, errA := timeutil.ParseSheetDate(breakdowns[i].Date)
		b, errB := timeutil.ParseSheetDate(breakdowns[j].Date)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Before(b)
		}
	})
	return breakdowns
}

// CalculateTaskBreakdown groups timed entries by task, ignoring case and
// surrounding space, and sorts by total minutes descending. Each group
// keeps the spelling it was first seen with.
func CalculateTaskBreakdown(entries []entry.Entry) []TaskBreakdown {
	byTask := make(map[string]*TaskBreakdown)
	var order []string

	for _, e := range entries {
		minutes, err := timeutil.ElapsedMinutes(e.StartTime, e.EndTime)
		if err != nil {
			continue
		}
		task := strings.TrimSpace(e.Task)
		if task == "" {
			task = "(no task)"
		}
		key := strings.ToLower(task)
		b, ok := byTask[key]
		if !ok {
			b = &TaskBreakdown{Task: task}
			byTask[key] = b
			order = append(order, key)
		}
		b.TotalMinutes += minutes
		b.EntryCount++
	}

	breakdowns := make([]TaskBreakdown, 0, len(order))
	for _, key := range order {
		breakdowns = append(breakdowns, *byTask[key])
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].TotalMinutes > breakdowns[j].TotalMinutes
	})
	return breakdowns
}
