package timeutil

import "time"

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given day (23:59:59.999999999)
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns Monday 00:00:00 of the week containing t.
// Go's Weekday() puts Sunday at 0, which belongs to the week before.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// EndOfWeek returns Sunday 23:59:59.999999999 of the week containing t
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// ThisWeek returns the Monday-Sunday range containing now
func ThisWeek(now time.Time) DateRange {
	return DateRange{Start: StartOfWeek(now), End: EndOfWeek(now)}
}

// LastWeek returns the Monday-Sunday range before the one containing now
func LastWeek(now time.Time) DateRange {
	return ThisWeek(now.AddDate(0, 0, -7))
}
