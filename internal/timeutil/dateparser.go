package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SheetDateLayout is the MM-DD-YY form dates are written to the timesheet in
const SheetDateLayout = "01-02-06"

// ISODateLayout is accepted on the command line alongside SheetDateLayout
const ISODateLayout = "2006-01-02"

// ParseSheetDate parses a timesheet Date cell such as "01-15-24".
// The result is local midnight of that day.
func ParseSheetDate(input string) (time.Time, error) {
	t, err := time.ParseInLocation(SheetDateLayout, strings.TrimSpace(input), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseDate parses a date flag in YYYY-MM-DD or MM-DD-YY form, returning
// local midnight. Four-digit years are read as ISO first.
//
// Valid inputs:
//   - "2024-01-15"
//   - "01-15-24"
func ParseDate(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or MM-DD-YY, e.g., 2024-01-15 or 01-15-24)")
	}

	if t, err := time.ParseInLocation(ISODateLayout, input, time.Local); err == nil {
		return t, nil
	}
	if t, err := ParseSheetDate(input); err == nil {
		return t, nil
	}

	return time.Time{}, buildDateParseError(input)
}

var (
	yearOnlyRe   = regexp.MustCompile(`^\d{4}$`)
	yearMonthRe  = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	monthDayRe   = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
	slashDateRe  = regexp.MustCompile(`^\d{1,2}/\d{1,2}(/\d{2,4})?$`)
	tooManyParts = regexp.MustCompile(`^\d+-\d+-\d+-`)
)

// buildDateParseError names what is wrong with input where the shape gives it away
func buildDateParseError(input string) error {
	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case yearMonthRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case monthDayRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format MM-DD-YY, e.g., %s-24)", input, input)
	case slashDateRe.MatchString(input):
		return fmt.Errorf("invalid date '%s': use dashes, not slashes (MM-DD-YY or YYYY-MM-DD)", input)
	case tooManyParts.MatchString(input):
		return fmt.Errorf("invalid date '%s': too many date parts (use format YYYY-MM-DD or MM-DD-YY)", input)
	default:
		return fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or MM-DD-YY, e.g., 2024-01-15 or 01-15-24)", input)
	}
}
