package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the 12-hour clock format used for start and end times.
// The hour accepts one or two digits ("9:00 AM" and "09:00 AM").
const ClockLayout = "3:04 PM"

// NotAvailable is written in place of an elapsed duration that could not be computed
const NotAvailable = "N/A"

// ParseError reports a clock time that is not in HH:MM AM/PM form
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid clock time %q (expected HH:MM AM/PM): %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseClock parses a 12-hour clock time such as "09:15 AM" or "5:45 pm".
// The returned time carries only the hour and minute on the zero date.
func ParseClock(input string) (time.Time, error) {
	value := strings.ToUpper(strings.TrimSpace(input))
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Value: input, Err: err}
	}
	// time.Parse lets "00:30 AM" through; a 12-hour clock has no hour zero
	if strings.HasPrefix(value, "0:") || strings.HasPrefix(value, "00:") {
		return time.Time{}, &ParseError{Value: input, Err: fmt.Errorf("hour out of range")}
	}
	return t, nil
}

// ElapsedMinutes returns the whole minutes between start and end.
// An end earlier than start is read as crossing midnight. Equal times are zero.
func ElapsedMinutes(start, end string) (int, error) {
	startTime, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endTime, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if endTime.Before(startTime) {
		endTime = endTime.Add(24 * time.Hour)
	}

	return int(endTime.Sub(startTime) / time.Minute), nil
}

// Elapsed returns the duration between two 12-hour clock times as
// "<H> hrs" or "<H> hrs <M> mins".
// Examples: ("09:15 AM", "05:45 PM") -> "8 hrs 30 mins", ("11:30 PM", "01:00 AM") -> "1 hrs 30 mins"
func Elapsed(start, end string) (string, error) {
	minutes, err := ElapsedMinutes(start, end)
	if err != nil {
		return "", err
	}
	return FormatElapsed(minutes), nil
}

// ElapsedOrNA is Elapsed with any error replaced by NotAvailable
func ElapsedOrNA(start, end string) string {
	elapsed, err := Elapsed(start, end)
	if err != nil {
		return NotAvailable
	}
	return elapsed
}

// FormatElapsed renders total minutes in timesheet form
func FormatElapsed(totalMinutes int) string {
	hours := totalMinutes / 60
	mins := totalMinutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d hrs", hours)
	}
	return fmt.Sprintf("%d hrs %d mins", hours, mins)
}
