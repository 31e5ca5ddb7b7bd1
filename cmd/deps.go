package cmd

import (
	"io"
	"os"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/extract"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/transcribe"
	"github.com/xolan/voicesheet/internal/tui"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Stdin       io.Reader
	Exit        func(code int)
	StoragePath func() (string, error)
	ConfigPath  func() (string, error)

	// Pipeline stages, built from the loaded config
	NewRecorder    func(cfg config.Config, out io.Writer) audio.Recorder
	NewTranscriber func(cfg config.TranscriberConfig) (transcribe.Transcriber, error)
	NewExtractor   func(cfg config.ExtractorConfig) (extract.Extractor, error)

	RunTUI func(store storage.Store, theme string) error
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Stdin:          os.Stdin,
		Exit:           os.Exit,
		StoragePath:    storage.GetStoragePath,
		ConfigPath:     config.GetConfigPath,
		NewRecorder:    newRecorder,
		NewTranscriber: newTranscriber,
		NewExtractor:   newExtractor,
		RunTUI:         tui.Run,
	}
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}
