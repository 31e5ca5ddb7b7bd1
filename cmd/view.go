package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/cli"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the timesheet",
	Long: `Print the timesheet as a table, followed by the entry count and total time.

Examples:
  voicesheet view                          Every entry
  voicesheet view --week                   This week's entries
  voicesheet view --last 7 -s review       The last 7 days, tasks containing "review"
  voicesheet view --from 2024-01-01 --to 2024-01-31`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		viewTimesheet(flagsFrom(cmd), filterOptionsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	addFilterFlags(viewCmd)
}

func viewTimesheet(f globalFlags, o filterOptions) {
	flt, ok := buildFilter(o)
	if !ok {
		return
	}
	_, store, ok := setup(f)
	if !ok {
		return
	}

	if err := cli.ShowFiltered(deps.Stdout, store, flt); err != nil {
		fail("Failed to read timesheet", err, "Check that the file is a valid timesheet: "+store.Path())
	}
}
