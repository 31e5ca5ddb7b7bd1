package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/session"
)

var processCmd = &cobra.Command{
	Use:   "process <audio.wav>",
	Short: "Transcribe a recording and save its entries",
	Long: `Run an existing recording through transcription and extraction, then
append the entries found to the timesheet.

The file must be a 16-bit PCM WAV; mono 16 kHz is what the recorder writes.

Examples:
  voicesheet process monday.wav
  voicesheet process standup.wav --store ~/timesheets/work.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		processAudio(flagsFrom(cmd), args[0])
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func processAudio(f globalFlags, path string) {
	cfg, store, ok := setup(f)
	if !ok {
		return
	}

	clip, err := audio.LoadClip(path)
	if err != nil {
		fail("Failed to read audio file", err, "Provide a 16-bit PCM WAV file")
		return
	}

	ctrl, ok := newController(cfg, store)
	if !ok {
		return
	}
	backupBeforeWrite(store.Path())

	ctx, stop := signalContext()
	defer stop()

	exitOnFailure(ctrl.Process(ctx, clip))
}

// exitOnFailure exits 1 when a one-shot command failed a stage or lost an entry
func exitOnFailure(out session.Outcome) {
	if out.Err != nil || out.Failed > 0 {
		deps.Exit(1)
	}
}
