package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/storage"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [n]",
	Short: "Restore the timesheet from a backup",
	Long: `Replace the timesheet with one of its backups.

A backup is taken before each command that writes to the timesheet, keeping
the last 3 as <timesheet>.bak.1 (newest) to .bak.3 (oldest). Restoring backs up
the current file first, so a restore can be undone with 'voicesheet restore'.

Examples:
  voicesheet restore           Restore the most recent backup
  voicesheet restore 2         Restore the second most recent backup
  voicesheet restore --list    List available backups`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		list, _ := cmd.Flags().GetBool("list")
		restoreTimesheet(flagsFrom(cmd), args, list)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolP("list", "l", false, "List available backups")
}

func restoreTimesheet(f globalFlags, args []string, list bool) {
	cfg, ok := loadConfig(f)
	if !ok {
		return
	}
	store, ok := openStore(f, cfg)
	if !ok {
		return
	}

	if list {
		listBackups(store.Path())
		return
	}

	n := 1
	if len(args) == 1 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil {
			fail(fmt.Sprintf("Invalid backup number '%s'", args[0]), err, fmt.Sprintf("Use a number from 1 to %d", storage.MaxBackupCount))
			return
		}
	}

	if err := storage.RestoreBackup(store.Path(), n); err != nil {
		fail("Failed to restore backup", err, "Run 'voicesheet restore --list' to see available backups")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Restored %s from backup %d\n", store.Path(), n)
}

func listBackups(path string) {
	backups, err := storage.ListBackups(path)
	if err != nil {
		fail("Failed to list backups", err, "")
		return
	}
	if len(backups) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No backups of %s\n", path)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Backups of %s:\n", path)
	for _, b := range backups {
		_, _ = fmt.Fprintf(deps.Stdout, "  %d  %s  %s\n", b.Number, b.ModTime.Format("2006-01-02 15:04:05"), b.Path)
	}
}

// backupBeforeWrite snapshots the timesheet before a command appends to it.
// A failed backup is reported but doesn't stop the write.
func backupBeforeWrite(path string) {
	if err := storage.CreateBackup(path); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Warning: Failed to back up timesheet")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
}
