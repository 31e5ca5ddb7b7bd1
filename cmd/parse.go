package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/cli"
	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/session"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Save an extraction block to the timesheet",
	Long: `Parse entries in the extraction format and append them to the timesheet.
Reads the file if given, otherwise stdin.

Each entry is a block of "Field: value" lines separated by a blank line:

  Date: 01-15-24
  Day: Monday
  Start Time: 09:00 AM
  End Time: 11:00 AM
  Task: Code review

Time Elapsed is computed when missing. Blocks with fewer than five of the
six fields are skipped.

Examples:
  voicesheet parse notes.txt
  voicesheet parse notes.txt --dry-run
  pbpaste | voicesheet parse`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		parseEntries(flagsFrom(cmd), path, dryRun)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("dry-run", false, "Print the parsed entries without saving them")
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(deps.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func parseEntries(f globalFlags, path string, dryRun bool) {
	text, err := readInput(path)
	if err != nil {
		fail("Failed to read input", err, "")
		return
	}

	if dryRun {
		entries := entry.Parse(text)
		if len(entries) == 0 {
			_, _ = fmt.Fprintln(deps.Stdout, session.MsgNoEntries)
			return
		}
		_, _ = fmt.Fprintln(deps.Stdout, cli.RenderTimesheet(entries))
		_, _ = fmt.Fprintf(deps.Stdout, "%d %s parsed (dry run, nothing saved)\n", len(entries), cli.Pluralize(len(entries)))
		return
	}

	_, store, ok := setup(f)
	if !ok {
		return
	}

	backupBeforeWrite(store.Path())
	ctrl := session.New(session.Options{Store: store, Out: deps.Stdout})
	exitOnFailure(ctrl.Import(text))
}
