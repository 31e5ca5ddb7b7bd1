package timeutil

import (
	"fmt"
	"time"
)

// DateRange is an inclusive span of days. A zero Start or End leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is open on both sides
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls within the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// String renders the range for headings, e.g. "01-15-24 to 01-21-24"
func (r DateRange) String() string {
	switch {
	case r.IsZero():
		return "all dates"
	case r.End.IsZero():
		return "from " + r.Start.Format(SheetDateLayout)
	case r.Start.IsZero():
		return "until " + r.End.Format(SheetDateLayout)
	default:
		return r.Start.Format(SheetDateLayout) + " to " + r.End.Format(SheetDateLayout)
	}
}

// ParseDateRangeFlags turns --from, --to and --last into a DateRange.
// lastDays counts back from now, today included, and can't be combined with from/to.
func ParseDateRangeFlags(fromStr, toStr string, lastDays int, now time.Time) (DateRange, error) {
	if lastDays < 0 {
		return DateRange{}, fmt.Errorf("invalid --last %d: must be positive", lastDays)
	}
	if lastDays > 0 && (fromStr != "" || toStr != "") {
		return DateRange{}, fmt.Errorf("cannot use --last with --from or --to")
	}

	if lastDays > 0 {
		return DateRange{
			Start: StartOfDay(now.AddDate(0, 0, -(lastDays - 1))),
			End:   EndOfDay(now),
		}, nil
	}

	var r DateRange
	if fromStr != "" {
		start, err := ParseDate(fromStr)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid --from date: %w", err)
		}
		r.Start = start
	}
	if toStr != "" {
		end, err := ParseDate(toStr)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid --to date: %w", err)
		}
		r.End = EndOfDay(end)
	}

	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("--from date (%s) is after --to date (%s)",
			r.Start.Format(ISODateLayout), r.End.Format(ISODateLayout))
	}
	return r, nil
}
