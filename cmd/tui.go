package cmd

import (
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the timesheet in a terminal UI",
	Long: `Open the timesheet in an interactive table.

Keyboard shortcuts:
  j/k or arrows   Move between entries
  g/G             First/last entry
  r               Reload from disk
  t/T             Next/previous color theme
  ?               Show all shortcuts
  q               Quit

The starting theme is the [tui] theme config key.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(flagsFrom(cmd))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(f globalFlags) {
	cfg, store, ok := setup(f)
	if !ok {
		return
	}

	if err := deps.RunTUI(store, cfg.TUI.Theme); err != nil {
		fail("Failed to run TUI", err, "")
	}
}
