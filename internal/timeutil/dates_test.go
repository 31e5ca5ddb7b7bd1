package timeutil

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"iso", "2024-01-15", date(2024, time.January, 15)},
		{"sheet form", "01-15-24", date(2024, time.January, 15)},
		{"leap day", "2024-02-29", date(2024, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseDate(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDate_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "cannot be empty"},
		{"2024", "missing month and day"},
		{"2024-01", "missing day"},
		{"01-15", "missing year"},
		{"01/15/2024", "use dashes"},
		{"2024-01-15-01", "too many date parts"},
		{"2023-02-29", "invalid date format"},
		{"yesterday", "invalid date format"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseDate(%q) error = %q, expected it to contain %q", tt.input, err, tt.want)
			}
		})
	}
}

func TestParseSheetDate(t *testing.T) {
	got, err := ParseSheetDate(" 03-05-24 ")
	if err != nil {
		t.Fatalf("ParseSheetDate() error: %v", err)
	}
	if !got.Equal(date(2024, time.March, 5)) {
		t.Errorf("ParseSheetDate() = %v", got)
	}

	if _, err := ParseSheetDate("2024-03-05"); err == nil {
		t.Error("expected ISO date to be rejected as a sheet date")
	}
}

func TestWeeks(t *testing.T) {
	// Wednesday 2024-01-17
	now := time.Date(2024, time.January, 17, 15, 30, 0, 0, time.Local)

	week := ThisWeek(now)
	if !week.Start.Equal(date(2024, time.January, 15)) {
		t.Errorf("ThisWeek start = %v, expected Monday 2024-01-15", week.Start)
	}
	if !week.End.Equal(EndOfDay(date(2024, time.January, 21))) {
		t.Errorf("ThisWeek end = %v, expected end of Sunday 2024-01-21", week.End)
	}

	last := LastWeek(now)
	if !last.Start.Equal(date(2024, time.January, 8)) {
		t.Errorf("LastWeek start = %v, expected 2024-01-08", last.Start)
	}

	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2024, time.January, 21, 9, 0, 0, 0, time.Local)
	if got := StartOfWeek(sunday); !got.Equal(date(2024, time.January, 15)) {
		t.Errorf("StartOfWeek(Sunday) = %v, expected 2024-01-15", got)
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: date(2024, time.January, 15), End: EndOfDay(date(2024, time.January, 17))}

	tests := []struct {
		name     string
		r        DateRange
		t        time.Time
		expected bool
	}{
		{"first day", r, date(2024, time.January, 15), true},
		{"last day", r, date(2024, time.January, 17), true},
		{"before", r, date(2024, time.January, 14), false},
		{"after", r, date(2024, time.January, 18), false},
		{"open range", DateRange{}, date(1999, time.December, 31), true},
		{"open end", DateRange{Start: r.Start}, date(2030, time.January, 1), true},
		{"open start", DateRange{End: r.End}, date(2024, time.January, 18), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.t); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.t, got, tt.expected)
			}
		})
	}
}

func TestDateRange_String(t *testing.T) {
	start, end := date(2024, time.January, 15), EndOfDay(date(2024, time.January, 21))

	tests := []struct {
		r        DateRange
		expected string
	}{
		{DateRange{}, "all dates"},
		{DateRange{Start: start}, "from 01-15-24"},
		{DateRange{End: end}, "until 01-21-24"},
		{DateRange{Start: start, End: end}, "01-15-24 to 01-21-24"},
	}

	for _, tt := range tests {
		if got := tt.r.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}

func TestParseDateRangeFlags(t *testing.T) {
	now := time.Date(2024, time.January, 17, 15, 30, 0, 0, time.Local)

	t.Run("last days", func(t *testing.T) {
		r, err := ParseDateRangeFlags("", "", 7, now)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if !r.Start.Equal(date(2024, time.January, 11)) || !r.End.Equal(EndOfDay(now)) {
			t.Errorf("range = %v", r)
		}
	})

	t.Run("from and to", func(t *testing.T) {
		r, err := ParseDateRangeFlags("2024-01-01", "01-31-24", 0, now)
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if !r.Start.Equal(date(2024, time.January, 1)) || !r.End.Equal(EndOfDay(date(2024, time.January, 31))) {
			t.Errorf("range = %v", r)
		}
	})

	t.Run("no flags", func(t *testing.T) {
		r, err := ParseDateRangeFlags("", "", 0, now)
		if err != nil || !r.IsZero() {
			t.Errorf("range = %v, err = %v, expected open range", r, err)
		}
	})

	errorCases := []struct {
		name     string
		from, to string
		last     int
		want     string
	}{
		{"last with from", "2024-01-01", "", 7, "cannot use --last"},
		{"negative last", "", "", -1, "must be positive"},
		{"bad from", "nope", "", 0, "invalid --from date"},
		{"bad to", "", "nope", 0, "invalid --to date"},
		{"reversed", "2024-02-01", "2024-01-01", 0, "is after"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRangeFlags(tt.from, tt.to, tt.last, now)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, expected %q", err, tt.want)
			}
		})
	}
}
