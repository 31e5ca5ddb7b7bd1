// Package session runs the record → transcribe → extract → persist loop.
//
// A Controller handles one command at a time. Each stage failure ends the
// current iteration with a typed error in the Outcome and returns the
// controller to Idle; nothing is retried and the process keeps running.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/cli"
	"github.com/xolan/voicesheet/internal/entry"
	"github.com/xolan/voicesheet/internal/extract"
	"github.com/xolan/voicesheet/internal/storage"
	"github.com/xolan/voicesheet/internal/transcribe"
)

// Prompt is printed before each command is read
const Prompt = "Press Enter to record (or type 'exit' to quit, 'view' to see timesheet): "

// Commands recognized at the prompt. Anything else records.
const (
	CommandExit   = "exit"
	CommandView   = "view"
	CommandRecord = "record"
	// CommandProcess and CommandImport label outcomes of Process and Import
	CommandProcess = "process"
	CommandImport  = "import"
)

// MsgNoEntries is printed when extraction yields nothing that parses
const MsgNoEntries = "No valid entries found in the transcript."

// State is the controller's position in the pipeline
type State int

const (
	Idle State = iota
	Recording
	Transcribing
	Extracting
	Persisting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Transcribing:
		return "transcribing"
	case Extracting:
		return "extracting"
	case Persisting:
		return "persisting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome describes what one command did
type Outcome struct {
	SessionID string
	Command   string
	// Stage is the furthest stage entered; Idle for view and exit
	Stage State
	// Err is a *RecordError, *TranscribeError, *ExtractError or a read failure
	// for view. Per-entry append failures are counted in Failed instead.
	Err error

	Transcript string
	Parsed     int
	Persisted  int
	Failed     int

	Exit bool
}

// Viewer prints the contents of store
type Viewer func(w io.Writer, store storage.Store) error

// Options holds the controller's collaborators
type Options struct {
	Recorder    audio.Recorder
	Transcriber transcribe.Transcriber
	Extractor   extract.Extractor
	Store       storage.Store
	// Duration is the fixed recording length
	Duration time.Duration
	// Out receives user-facing progress messages
	Out io.Writer
	// Viewer renders the timesheet for "view"; defaults to cli.ShowTimesheet
	Viewer Viewer
}

// Controller runs pipeline iterations sequentially. It is not safe for
// concurrent use; the store is the only state kept between iterations.
type Controller struct {
	recorder    audio.Recorder
	transcriber transcribe.Transcriber
	extractor   extract.Extractor
	store       storage.Store
	duration    time.Duration
	out         io.Writer
	viewer      Viewer

	state State
	newID func() string
}

// New creates a Controller in the Idle state
func New(opts Options) *Controller {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	viewer := opts.Viewer
	if viewer == nil {
		viewer = cli.ShowTimesheet
	}
	return &Controller{
		recorder:    opts.Recorder,
		transcriber: opts.Transcriber,
		extractor:   opts.Extractor,
		store:       opts.Store,
		duration:    opts.Duration,
		out:         out,
		viewer:      viewer,
		state:       Idle,
		newID:       uuid.NewString,
	}
}

// State returns the current pipeline state
func (c *Controller) State() State {
	return c.state
}

// Run reads commands from in until "exit", end of input, or ctx is cancelled.
// It returns nil in all three cases and an error only if reading fails.
func (c *Controller) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	// A blocked read can't observe ctx, so lines arrive over a channel
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	_, _ = fmt.Fprintln(c.out, "\nVoice Timesheet Application")
	for {
		_, _ = fmt.Fprint(c.out, "\n"+Prompt)

		var line string
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(c.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(c.out)
				return <-readErr
			}
			line = l
		}

		outcome := c.Handle(ctx, line)
		if outcome.Exit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Handle executes one command. input is trimmed and lower-cased first.
func (c *Controller) Handle(ctx context.Context, input string) Outcome {
	command := strings.ToLower(strings.TrimSpace(input))

	switch command {
	case CommandExit:
		_, _ = fmt.Fprintln(c.out, "Exiting application. Goodbye!")
		return Outcome{Command: CommandExit, Stage: Idle, Exit: true}
	case CommandView:
		return c.view()
	default:
		return c.record(ctx)
	}
}

// Process runs the pipeline from Transcribing on an existing clip
func (c *Controller) Process(ctx context.Context, clip audio.Clip) Outcome {
	out := Outcome{SessionID: c.newID(), Command: CommandProcess}
	logger := slog.With("session_id", out.SessionID, "command", out.Command, "audio", clip.Path)
	defer c.reset()

	c.fromTranscribing(ctx, logger, clip, &out)
	return out
}

// Import runs only Persisting on an extraction block
func (c *Controller) Import(text string) Outcome {
	out := Outcome{SessionID: c.newID(), Command: CommandImport}
	logger := slog.With("session_id", out.SessionID, "command", out.Command)
	defer c.reset()

	c.persist(logger, text, &out)
	return out
}

func (c *Controller) view() Outcome {
	out := Outcome{Command: CommandView, Stage: Idle}
	if err := c.viewer(c.out, c.store); err != nil {
		slog.Error("failed to read timesheet", "path", c.store.Path(), "error", err)
		_, _ = fmt.Fprintf(c.out, "Failed to read timesheet: %v\n", err)
		out.Err = err
	}
	return out
}

func (c *Controller) record(ctx context.Context) Outcome {
	out := Outcome{SessionID: c.newID(), Command: CommandRecord}
	logger := slog.With("session_id", out.SessionID, "command", out.Command)
	defer c.reset()

	c.enter(&out, Recording)
	_, _ = fmt.Fprintln(c.out, "\n--- Recording Audio ---")
	start := time.Now()
	clip, err := c.recorder.Record(ctx, c.duration)
	if err != nil {
		out.Err = &RecordError{Err: err}
		logger.Warn("recording failed", "error", err)
		_, _ = fmt.Fprintf(c.out, "Failed to record audio: %v\nPlease try again.\n", err)
		return out
	}
	logger.Info("recorded audio", "duration", clip.Duration(), "elapsed", time.Since(start))

	c.fromTranscribing(ctx, logger, clip, &out)
	return out
}

// fromTranscribing runs Transcribing, Extracting and Persisting
func (c *Controller) fromTranscribing(ctx context.Context, logger *slog.Logger, clip audio.Clip, out *Outcome) {
	c.enter(out, Transcribing)
	_, _ = fmt.Fprintln(c.out, "\n--- Transcribing Audio ---")
	start := time.Now()
	transcript, err := c.transcriber.Transcribe(ctx, clip)
	if err == nil && strings.TrimSpace(transcript) == "" {
		err = ErrEmptyTranscript
	}
	if err != nil {
		out.Err = &TranscribeError{Backend: c.transcriber.Name(), Err: err}
		logger.Warn("transcription failed", "backend", c.transcriber.Name(), "error", err)
		_, _ = fmt.Fprintf(c.out, "Failed to transcribe audio: %v\nPlease try again.\n", err)
		return
	}
	out.Transcript = transcript
	logger.Info("transcribed audio", "backend", c.transcriber.Name(), "chars", len(transcript), "elapsed", time.Since(start))
	_, _ = fmt.Fprintf(c.out, "Transcript: %s\n", transcript)

	c.enter(out, Extracting)
	_, _ = fmt.Fprintln(c.out, "\n--- Extracting Entries ---")
	start = time.Now()
	extracted, err := c.extractor.Extract(ctx, transcript)
	if err == nil && strings.TrimSpace(extracted) == "" {
		err = ErrEmptyExtraction
	}
	if err != nil {
		out.Err = &ExtractError{Backend: c.extractor.Name(), Err: err}
		logger.Warn("extraction failed", "backend", c.extractor.Name(), "error", err)
		_, _ = fmt.Fprintf(c.out, "Failed to extract data from transcript: %v\nPlease try again.\n", err)
		return
	}
	logger.Info("extracted entries", "backend", c.extractor.Name(), "chars", len(extracted), "elapsed", time.Since(start))
	logger.Debug("extraction block", "text", extracted)

	c.persist(logger, extracted, out)
}

// persist parses text and appends every valid entry. An append failure is
// logged and counted; the remaining entries are still attempted.
func (c *Controller) persist(logger *slog.Logger, text string, out *Outcome) {
	c.enter(out, Persisting)

	entries := entry.Parse(text)
	out.Parsed = len(entries)
	if len(entries) == 0 {
		logger.Info("no valid entries parsed")
		_, _ = fmt.Fprintln(c.out, MsgNoEntries)
		return
	}

	_, _ = fmt.Fprintf(c.out, "Found %d %s. Adding to timesheet...\n", len(entries), cli.Pluralize(len(entries)))
	for i, e := range entries {
		if err := c.store.Append(e); err != nil {
			out.Failed++
			logger.Error("failed to append entry", "index", i, "date", e.Date, "task", e.Task, "error", err)
			_, _ = fmt.Fprintf(c.out, "Failed to save entry %s: %v\n", cli.FormatEntry(e), err)
			continue
		}
		out.Persisted++
		_, _ = fmt.Fprintf(c.out, "Added: %s\n", cli.FormatEntry(e))
	}

	logger.Info("persisted entries", "parsed", out.Parsed, "persisted", out.Persisted, "failed", out.Failed, "path", c.store.Path())
	if out.Failed > 0 {
		_, _ = fmt.Fprintf(c.out, "Saved %d of %d %s to %s (%d failed).\n", out.Persisted, out.Parsed, cli.Pluralize(out.Parsed), c.store.Path(), out.Failed)
		return
	}
	_, _ = fmt.Fprintf(c.out, "Saved %d %s to %s.\n", out.Persisted, cli.Pluralize(out.Persisted), c.store.Path())
}

func (c *Controller) enter(out *Outcome, s State) {
	c.state = s
	out.Stage = s
}

func (c *Controller) reset() {
	c.state = Idle
}
