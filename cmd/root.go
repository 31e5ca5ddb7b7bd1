package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/session"
	"github.com/xolan/voicesheet/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "voicesheet",
	Short: "Record spoken work logs into a timesheet",
	Long: `voicesheet records a short voice note, transcribes it, extracts the
timesheet entries it describes and appends them to a spreadsheet.

Run without arguments for the interactive loop:
  Enter          Record for the configured duration
  view           Show the timesheet
  exit           Quit

Other commands:
  voicesheet view [--week|--last N]    Show the timesheet once, optionally filtered
  voicesheet stats                     Totals per day and per task
  voicesheet process <audio.wav>       Transcribe, extract and save a recording
  voicesheet parse [file] [--dry-run]  Save an extraction block from a file or stdin
  voicesheet elapsed <start> <end>     Print the time between two clock times
  voicesheet config [init]             Show or create the configuration
  voicesheet tui                       Browse the timesheet
  voicesheet restore [n] [--list]      Restore the timesheet from a backup

Timesheets are .xlsx (default) or .csv files with the columns
Date, Day, Start Time, End Time, Time Elapsed, Task.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runSession(flagsFrom(cmd))
	},
}

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	configPath string
	storePath  string
	duration   int
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default <UserConfigDir>/voicesheet/config.toml)")
	rootCmd.PersistentFlags().String("store", "", "Timesheet file, .xlsx or .csv (overrides store_path)")
	rootCmd.PersistentFlags().Int("duration", 0, "Recording length in seconds (overrides capture_duration_seconds)")
}

func flagsFrom(cmd *cobra.Command) globalFlags {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")
	storePath, _ := flags.GetString("store")
	duration, _ := flags.GetInt("duration")
	return globalFlags{configPath: configPath, storePath: storePath, duration: duration}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"voicesheet version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads --config, or the per-user config file when it exists,
// and configures logging from it.
func loadConfig(f globalFlags) (config.Config, bool) {
	var cfg config.Config
	var err error

	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
		if err != nil {
			failConfig(f.configPath, err)
			return config.Config{}, false
		}
	} else {
		path, pathErr := deps.ConfigPath()
		if pathErr != nil {
			fail("Failed to determine config file location", pathErr, "Check that your home directory is accessible")
			return config.Config{}, false
		}
		cfg, err = config.LoadOrDefault(path)
		if err != nil {
			failConfig(path, err)
			return config.Config{}, false
		}
	}

	if f.duration < 0 {
		fail("Invalid --duration", nil, "Use a positive number of seconds")
		return config.Config{}, false
	}
	if f.duration > 0 {
		cfg.CaptureDurationSeconds = f.duration
	}

	config.SetupLogging(cfg.Logging, deps.Stderr)
	return cfg, true
}

// openStore picks the timesheet from --store, then store_path, then the app directory
func openStore(f globalFlags, cfg config.Config) (storage.Store, bool) {
	path := f.storePath
	if path == "" {
		path = cfg.StorePath
	}
	if path == "" {
		var err error
		path, err = deps.StoragePath()
		if err != nil {
			fail("Failed to determine storage location", err, "Check that your home directory is accessible")
			return nil, false
		}
	}

	store, err := storage.Open(path)
	if err != nil {
		failStore(err)
		return nil, false
	}
	return store, true
}

func setup(f globalFlags) (config.Config, storage.Store, bool) {
	cfg, ok := loadConfig(f)
	if !ok {
		return config.Config{}, nil, false
	}
	store, ok := openStore(f, cfg)
	if !ok {
		return config.Config{}, nil, false
	}
	return cfg, store, true
}

// newController wires the configured recorder and backends to store
func newController(cfg config.Config, store storage.Store) (*session.Controller, bool) {
	transcriber, err := deps.NewTranscriber(cfg.Transcriber)
	if err != nil {
		fail("Failed to configure transcriber", err, backendHint(err, "Valid transcriber.backend values: openai, local, deepgram"))
		return nil, false
	}
	extractor, err := deps.NewExtractor(cfg.Extractor)
	if err != nil {
		fail("Failed to configure extractor", err, backendHint(err, "Valid extractor.backend values: openai, ollama"))
		return nil, false
	}

	return session.New(session.Options{
		Recorder:    deps.NewRecorder(cfg, deps.Stdout),
		Transcriber: transcriber,
		Extractor:   extractor,
		Store:       store,
		Duration:    cfg.CaptureDuration(),
		Out:         deps.Stdout,
	}), true
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runSession runs the interactive record loop until exit, EOF or a signal
func runSession(f globalFlags) {
	cfg, store, ok := setup(f)
	if !ok {
		return
	}
	ctrl, ok := newController(cfg, store)
	if !ok {
		return
	}
	backupBeforeWrite(store.Path())

	ctx, stop := signalContext()
	defer stop()

	if err := ctrl.Run(ctx, deps.Stdin); err != nil {
		fail("Failed to read input", err, "")
	}
}
