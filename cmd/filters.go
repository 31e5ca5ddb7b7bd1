package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/filter"
	"github.com/xolan/voicesheet/internal/timeutil"
)

// filterOptions are the selection flags shared by view and stats
type filterOptions struct {
	from     string
	to       string
	last     int
	week     bool
	lastWeek bool
	search   string
}

// now is swapped in tests
var now = time.Now

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Only entries on or after this date (YYYY-MM-DD or MM-DD-YY)")
	cmd.Flags().String("to", "", "Only entries on or before this date (YYYY-MM-DD or MM-DD-YY)")
	cmd.Flags().Int("last", 0, "Only entries from the last N days, today included")
	cmd.Flags().Bool("week", false, "Only entries from this week (Monday-Sunday)")
	cmd.Flags().Bool("last-week", false, "Only entries from last week (Monday-Sunday)")
	cmd.Flags().StringP("search", "s", "", "Only entries whose task contains this text")
}

func filterOptionsFrom(cmd *cobra.Command) filterOptions {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	last, _ := cmd.Flags().GetInt("last")
	week, _ := cmd.Flags().GetBool("week")
	lastWeek, _ := cmd.Flags().GetBool("last-week")
	search, _ := cmd.Flags().GetString("search")
	return filterOptions{from: from, to: to, last: last, week: week, lastWeek: lastWeek, search: search}
}

// buildFilter validates the flags. It reports failure itself and returns ok == false.
func buildFilter(o filterOptions) (*filter.Filter, bool) {
	ranges := 0
	for _, set := range []bool{o.week, o.lastWeek, o.last != 0 || o.from != "" || o.to != ""} {
		if set {
			ranges++
		}
	}
	if ranges > 1 {
		fail("Conflicting date flags", nil, "Use only one of --week, --last-week or --from/--to/--last")
		return nil, false
	}

	var r timeutil.DateRange
	switch {
	case o.week:
		r = timeutil.ThisWeek(now())
	case o.lastWeek:
		r = timeutil.LastWeek(now())
	default:
		var err error
		r, err = timeutil.ParseDateRangeFlags(o.from, o.to, o.last, now())
		if err != nil {
			fail("Invalid date range", err, "Dates are YYYY-MM-DD or MM-DD-YY, e.g. --from 2024-01-15")
			return nil, false
		}
	}

	return filter.NewFilter(o.search, r), true
}
