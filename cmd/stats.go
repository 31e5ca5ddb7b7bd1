package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/cli"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize time per day and per task",
	Long: `Show the total time, days worked and daily average, followed by
totals per day and per task. Accepts the same filters as 'voicesheet view'.

Examples:
  voicesheet stats
  voicesheet stats --last-week
  voicesheet stats --from 01-01-24 --to 01-31-24`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStats(flagsFrom(cmd), filterOptionsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addFilterFlags(statsCmd)
}

func showStats(f globalFlags, o filterOptions) {
	flt, ok := buildFilter(o)
	if !ok {
		return
	}
	_, store, ok := setup(f)
	if !ok {
		return
	}

	if err := cli.ShowStats(deps.Stdout, store, flt); err != nil {
		fail("Failed to read timesheet", err, "Check that the file is a valid timesheet: "+store.Path())
	}
}
