package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/extract"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/transcribe"
)

const testBlock = `Date: 01-15-24
Day: Monday
Start Time: 09:00 AM
End Time: 11:00 AM
Time Elapsed: 2 hrs
Task: Code review`

type fakeRecorder struct{}

func (fakeRecorder) Record(ctx context.Context, d time.Duration) (audio.Clip, error) {
	return audio.Clip{SampleRate: 16000, Channels: 1, Samples: make([]int16, 1600)}, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Name() string { return "fake" }

func (f fakeTranscriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	return f.text, f.err
}

type fakeExtractor struct {
	text string
}

func (f fakeExtractor) Name() string { return "fake" }

func (f fakeExtractor) Extract(ctx context.Context, transcript string) (string, error) {
	return f.text, nil
}

// testDeps creates test dependencies with captured output. The config path
// points into an empty temp dir so the defaults apply.
func testDeps(t *testing.T, storagePath string) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	configPath := filepath.Join(t.TempDir(), "config.toml")
	return &Deps{
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  strings.NewReader(""),
		Exit:   func(code int) {},
		StoragePath: func() (string, error) {
			return storagePath, nil
		},
		ConfigPath: func() (string, error) {
			return configPath, nil
		},
		NewRecorder: func(cfg config.Config, out io.Writer) audio.Recorder {
			return fakeRecorder{}
		},
		NewTranscriber: func(cfg config.TranscriberConfig) (transcribe.Transcriber, error) {
			return fakeTranscriber{text: "code review from nine to eleven"}, nil
		},
		NewExtractor: func(cfg config.ExtractorConfig) (extract.Extractor, error) {
			return fakeExtractor{text: testBlock}, nil
		},
		RunTUI: func(store storage.Store, theme string) error {
			return nil
		},
	}, stdout, stderr
}

// captureExit records the last exit code passed to d.Exit; -1 means no exit
func captureExit(d *Deps) *int {
	code := -1
	d.Exit = func(c int) { code = c }
	return &code
}

func readCSV(t *testing.T, path string) []entry.Entry {
	t.Helper()
	entries, err := storage.NewCSVStore(path).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	return entries
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when no file", func(t *testing.T) {
		d, _, _ := testDeps(t, "")
		exit := captureExit(d)
		SetDeps(d)
		defer ResetDeps()

		cfg, ok := loadConfig(globalFlags{})
		if !ok || *exit != -1 {
			t.Fatalf("loadConfig() ok = %v, exit = %d", ok, *exit)
		}
		if cfg.CaptureDurationSeconds != config.DefaultConfig().CaptureDurationSeconds {
			t.Errorf("CaptureDurationSeconds = %d, expected default", cfg.CaptureDurationSeconds)
		}
	})

	t.Run("duration flag overrides", func(t *testing.T) {
		d, _, _ := testDeps(t, "")
		SetDeps(d)
		defer ResetDeps()

		cfg, ok := loadConfig(globalFlags{duration: 30})
		if !ok {
			t.Fatal("loadConfig() failed")
		}
		if cfg.CaptureDuration() != 30*time.Second {
			t.Errorf("CaptureDuration() = %v, expected 30s", cfg.CaptureDuration())
		}
	})

	t.Run("config file", func(t *testing.T) {
		d, _, _ := testDeps(t, "")
		SetDeps(d)
		defer ResetDeps()

		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("capture_duration_seconds = 7\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, ok := loadConfig(globalFlags{configPath: path})
		if !ok {
			t.Fatal("loadConfig() failed")
		}
		if cfg.CaptureDurationSeconds != 7 {
			t.Errorf("CaptureDurationSeconds = %d, expected 7", cfg.CaptureDurationSeconds)
		}
	})

	tests := []struct {
		name   string
		flags  func(t *testing.T) globalFlags
		stderr string
	}{
		{
			name: "missing --config file",
			flags: func(t *testing.T) globalFlags {
				return globalFlags{configPath: filepath.Join(t.TempDir(), "nope.toml")}
			},
			stderr: "Error: Failed to load configuration",
		},
		{
			name: "invalid config",
			flags: func(t *testing.T) globalFlags {
				path := filepath.Join(t.TempDir(), "bad.toml")
				_ = os.WriteFile(path, []byte("[transcriber]\nbackend = \"carrier-pigeon\"\n"), 0644)
				return globalFlags{configPath: path}
			},
			stderr: "transcriber.backend",
		},
		{
			name:   "negative duration",
			flags:  func(t *testing.T) globalFlags { return globalFlags{duration: -5} },
			stderr: "Error: Invalid --duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, stderr := testDeps(t, "")
			exit := captureExit(d)
			SetDeps(d)
			defer ResetDeps()

			if _, ok := loadConfig(tt.flags(t)); ok {
				t.Fatal("expected loadConfig() to fail")
			}
			if *exit != 1 {
				t.Errorf("exit code = %d, expected 1", *exit)
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("expected stderr to contain %q, got: %s", tt.stderr, stderr.String())
			}
		})
	}
}

func TestLoadConfig_ConfigPathError(t *testing.T) {
	d, _, stderr := testDeps(t, "")
	exit := captureExit(d)
	d.ConfigPath = func() (string, error) { return "", errors.New("no home") }
	SetDeps(d)
	defer ResetDeps()

	if _, ok := loadConfig(globalFlags{}); ok {
		t.Fatal("expected loadConfig() to fail")
	}
	if *exit != 1 {
		t.Errorf("exit code = %d, expected 1", *exit)
	}
	if !strings.Contains(stderr.String(), "Failed to determine config file location") {
		t.Errorf("unexpected stderr: %s", stderr.String())
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	fromDeps := filepath.Join(dir, "deps.csv")
	fromConfig := filepath.Join(dir, "config.xlsx")
	fromFlag := filepath.Join(dir, "flag.csv")

	tests := []struct {
		name      string
		flag      string
		storePath string
		expected  string
	}{
		{"app directory", "", "", fromDeps},
		{"store_path", "", fromConfig, fromConfig},
		{"--store wins", fromFlag, fromConfig, fromFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := testDeps(t, fromDeps)
			SetDeps(d)
			defer ResetDeps()

			cfg := config.DefaultConfig()
			cfg.StorePath = tt.storePath

			store, ok := openStore(globalFlags{storePath: tt.flag}, cfg)
			if !ok {
				t.Fatal("openStore() failed")
			}
			if store.Path() != tt.expected {
				t.Errorf("Path() = %q, expected %q", store.Path(), tt.expected)
			}
		})
	}
}

func TestOpenStore_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		d, _, stderr := testDeps(t, "")
		exit := captureExit(d)
		SetDeps(d)
		defer ResetDeps()

		if _, ok := openStore(globalFlags{storePath: "sheet.ods"}, config.DefaultConfig()); ok {
			t.Fatal("expected openStore() to fail")
		}
		if *exit != 1 || !strings.Contains(stderr.String(), "Hint: Timesheets must end in .xlsx or .csv") {
			t.Errorf("exit = %d, stderr = %s", *exit, stderr.String())
		}
	})

	t.Run("storage path error", func(t *testing.T) {
		d, _, stderr := testDeps(t, "")
		exit := captureExit(d)
		d.StoragePath = func() (string, error) { return "", errors.New("no home") }
		SetDeps(d)
		defer ResetDeps()

		if _, ok := openStore(globalFlags{}, config.DefaultConfig()); ok {
			t.Fatal("expected openStore() to fail")
		}
		if *exit != 1 || !strings.Contains(stderr.String(), "Failed to determine storage location") {
			t.Errorf("exit = %d, stderr = %s", *exit, stderr.String())
		}
	})
}

func TestBackends(t *testing.T) {
	cfg := config.DefaultConfig()

	for _, backend := range config.ValidTranscriberBackends {
		t.Run("transcriber "+backend, func(t *testing.T) {
			tc := cfg.Transcriber
			tc.Backend = backend
			tr, err := newTranscriber(tc)
			if err != nil {
				t.Fatalf("newTranscriber(%q) error: %v", backend, err)
			}
			if tr.Name() != backend {
				t.Errorf("Name() = %q, expected %q", tr.Name(), backend)
			}
		})
	}

	for _, backend := range config.ValidExtractorBackends {
		t.Run("extractor "+backend, func(t *testing.T) {
			ec := cfg.Extractor
			ec.Backend = backend
			ex, err := newExtractor(ec)
			if err != nil {
				t.Fatalf("newExtractor(%q) error: %v", backend, err)
			}
			if ex.Name() != backend {
				t.Errorf("Name() = %q, expected %q", ex.Name(), backend)
			}
		})
	}

	if _, err := newTranscriber(config.TranscriberConfig{Backend: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown transcriber backend")
	}
	if _, err := newExtractor(config.ExtractorConfig{Backend: "tea-leaves"}); err == nil {
		t.Error("expected error for unknown extractor backend")
	}
	if newRecorder(cfg, io.Discard) == nil {
		t.Error("expected a recorder")
	}
}

func TestBackends_MissingAPIKey(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name string
		err  error
	}{
		{"openai transcriber", func() error {
			tc := cfg.Transcriber
			tc.Backend = "openai"
			tc.OpenAI.APIKey = ""
			_, err := newTranscriber(tc)
			return err
		}()},
		{"deepgram transcriber", func() error {
			tc := cfg.Transcriber
			tc.Backend = "deepgram"
			tc.Deepgram.APIKey = ""
			_, err := newTranscriber(tc)
			return err
		}()},
		{"openai extractor", func() error {
			ec := cfg.Extractor
			ec.Backend = "openai"
			ec.OpenAI.APIKey = ""
			_, err := newExtractor(ec)
			return err
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !isMissingKey(tt.err) {
				t.Errorf("error = %v, expected a missing API key error", tt.err)
			}
		})
	}

	local := cfg.Transcriber
	local.Backend = "local"
	if _, err := newTranscriber(local); err != nil {
		t.Errorf("local transcriber needs no key, got error: %v", err)
	}
}

func TestNewController_MissingAPIKey(t *testing.T) {
	d, _, stderr := testDeps(t, "")
	exit := captureExit(d)
	recorded := false
	d.NewRecorder = func(cfg config.Config, out io.Writer) audio.Recorder {
		recorded = true
		return fakeRecorder{}
	}
	d.NewTranscriber = newTranscriber
	SetDeps(d)
	defer ResetDeps()

	cfg := config.DefaultConfig()
	cfg.Transcriber.Backend = "openai"
	cfg.Transcriber.OpenAI.APIKey = ""

	if _, ok := newController(cfg, storage.NewCSVStore(filepath.Join(t.TempDir(), "t.csv"))); ok {
		t.Fatal("expected newController() to fail")
	}
	if recorded {
		t.Error("recorder was created despite the missing key")
	}
	if *exit != 1 || !strings.Contains(stderr.String(), "Export the API key") {
		t.Errorf("exit = %d, stderr = %s", *exit, stderr.String())
	}
}

func TestNewController_BackendError(t *testing.T) {
	d, _, stderr := testDeps(t, "")
	exit := captureExit(d)
	d.NewExtractor = func(cfg config.ExtractorConfig) (extract.Extractor, error) {
		return nil, errors.New("unknown extractor backend")
	}
	SetDeps(d)
	defer ResetDeps()

	if _, ok := newController(config.DefaultConfig(), storage.NewCSVStore(filepath.Join(t.TempDir(), "t.csv"))); ok {
		t.Fatal("expected newController() to fail")
	}
	if *exit != 1 || !strings.Contains(stderr.String(), "Failed to configure extractor") {
		t.Errorf("exit = %d, stderr = %s", *exit, stderr.String())
	}
}

func TestRunSession(t *testing.T) {
	storagePath := filepath.Join(t.TempDir(), "timesheet.csv")
	d, stdout, _ := testDeps(t, storagePath)
	exit := captureExit(d)
	d.Stdin = strings.NewReader("view\n\nview\nexit\n")
	SetDeps(d)
	defer ResetDeps()

	runSession(globalFlags{})

	if *exit != -1 {
		t.Errorf("unexpected exit code %d", *exit)
	}

	output := stdout.String()
	for _, want := range []string{
		"Voice Timesheet Application",
		"No timesheet found",
		"Transcript: code review from nine to eleven",
		"Added: 01-15-24 09:00 AM-11:00 AM Code review (2 hrs)",
		"Timesheet: " + storagePath,
		"Goodbye!",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}

	if entries := readCSV(t, storagePath); len(entries) != 1 {
		t.Errorf("expected 1 saved entry, got %d", len(entries))
	}
}

func TestRunSession_EOF(t *testing.T) {
	d, stdout, _ := testDeps(t, filepath.Join(t.TempDir(), "timesheet.csv"))
	exit := captureExit(d)
	SetDeps(d)
	defer ResetDeps()

	runSession(globalFlags{})

	if *exit != -1 {
		t.Errorf("unexpected exit code %d", *exit)
	}
	if !strings.Contains(stdout.String(), "Voice Timesheet Application") {
		t.Errorf("expected banner, got: %s", stdout.String())
	}
}
