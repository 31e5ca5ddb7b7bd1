// Package filter selects timesheet rows by task keyword and date range.
package filter

import (
	"strings"

	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/timeutil"
)

// Filter holds the selection criteria. Empty fields match every entry.
type Filter struct {
	Keyword string // case-insensitive substring of Task
	Range   timeutil.DateRange
}

// NewFilter creates a Filter from a keyword and a date range
func NewFilter(keyword string, r timeutil.DateRange) *Filter {
	return &Filter{Keyword: strings.TrimSpace(keyword), Range: r}
}

// IsEmpty returns true if the filter matches all entries
func (f *Filter) IsEmpty() bool {
	return f.Keyword == "" && f.Range.IsZero()
}

// FilterEntries returns the entries that match f, in their original order.
// An empty filter returns entries unchanged.
func FilterEntries(entries []entry.Entry, f *Filter) []entry.Entry {
	if f == nil || f.IsEmpty() {
		return entries
	}

	filtered := make([]entry.Entry, 0)
	for _, e := range entries {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// MatchesKeyword reports whether the keyword appears in the entry's task
func (f *Filter) MatchesKeyword(e entry.Entry) bool {
	if f.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Task), strings.ToLower(f.Keyword))
}

// MatchesRange reports whether the entry's Date falls in the range.
// With a range set, an entry whose Date doesn't parse never matches.
func (f *Filter) MatchesRange(e entry.Entry) bool {
	if f.Range.IsZero() {
		return true
	}
	day, err := timeutil.ParseSheetDate(e.Date)
	if err != nil {
		return false
	}
	return f.Range.Contains(day)
}

// Matches reports whether the entry satisfies every criterion
func (f *Filter) Matches(e entry.Entry) bool {
	return f.MatchesKeyword(e) && f.MatchesRange(e)
}
