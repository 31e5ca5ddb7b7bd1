package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/timeutil"
)

var elapsedCmd = &cobra.Command{
	Use:   "elapsed <start> <end>",
	Short: "Print the time between two clock times",
	Long: `Print the duration between two 12-hour clock times.
An end earlier than the start is read as crossing midnight.

Examples:
  voicesheet elapsed "09:15 AM" "05:45 PM"    8 hrs 30 mins
  voicesheet elapsed "11:30 PM" "01:00 AM"    1 hrs 30 mins`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		printElapsed(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(elapsedCmd)
}

func printElapsed(start, end string) {
	elapsed, err := timeutil.Elapsed(start, end)
	if err != nil {
		fail("Invalid clock time", err, "Use 12-hour times like '09:15 AM' or '5:45 PM'")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, elapsed)
}
