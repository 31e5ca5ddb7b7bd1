package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/xolan/voicesheet/internal/config"
)

// NormalizedPeak is the level, as a fraction of full scale, that recordings are scaled to
const NormalizedPeak = 0.9

var (
	// ErrNoAudio is returned when the capture produced no samples
	ErrNoAudio = errors.New("no audio recorded")
	// ErrSilent is returned when the recording's peak is below the silence threshold
	ErrSilent = errors.New("audio level is too low")
)

// Recorder captures a fixed-length clip from the microphone.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (Clip, error)
}

// Runner executes an external program
type Runner func(ctx context.Context, name string, args ...string) error

// CommandRecorder records by running an external capture program (ffmpeg by default)
// into a scratch WAV file, then decodes, checks and normalizes the result.
type CommandRecorder struct {
	cfg         config.RecorderConfig
	scratchPath string
	out         io.Writer

	run   Runner
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCommandRecorder creates a recorder that writes to scratchPath and prints
// progress to out.
func NewCommandRecorder(cfg config.RecorderConfig, scratchPath string, out io.Writer) *CommandRecorder {
	if out == nil {
		out = io.Discard
	}
	return &CommandRecorder{
		cfg:         cfg,
		scratchPath: scratchPath,
		out:         out,
		run:         runCommand,
		sleep:       sleepContext,
	}
}

// Args returns the capture program's arguments for a recording of length d
func (r *CommandRecorder) Args(d time.Duration) []string {
	secs := int(math.Ceil(d.Seconds()))
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-y",
		"-f", r.cfg.Format,
		"-i", r.cfg.Device,
		"-t", strconv.Itoa(secs),
		"-ac", "1",
		"-ar", strconv.Itoa(r.cfg.SampleRate),
		"-c:a", "pcm_s16le",
		r.scratchPath,
	}
}

// Record counts down, captures d of audio and returns the normalized clip.
// The normalized clip is also written back to the scratch path.
func (r *CommandRecorder) Record(ctx context.Context, d time.Duration) (Clip, error) {
	if d <= 0 {
		return Clip{}, fmt.Errorf("invalid recording duration %s", d)
	}

	fmt.Fprintf(r.out, "Recording for %d seconds...\n", int(math.Ceil(d.Seconds())))
	for i := r.cfg.CountdownSeconds; i > 0; i-- {
		fmt.Fprintf(r.out, "Starting in %d...\n", i)
		if err := r.sleep(ctx, time.Second); err != nil {
			return Clip{}, err
		}
	}
	fmt.Fprintln(r.out, "Recording NOW - Speak clearly...")

	// A stale file from a previous run must not pass for this recording
	if err := os.Remove(r.scratchPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Clip{}, fmt.Errorf("clearing scratch file: %w", err)
	}

	args := r.Args(d)
	slog.Debug("starting capture", "program", r.cfg.Program, "args", strings.Join(args, " "))
	if err := r.run(ctx, r.cfg.Program, args...); err != nil {
		return Clip{}, fmt.Errorf("%s: %w", r.cfg.Program, err)
	}
	fmt.Fprintln(r.out, "Finishing recording...")

	clip, err := LoadClip(r.scratchPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Clip{}, ErrNoAudio
		}
		return Clip{}, err
	}

	return r.check(clip)
}

// check rejects empty and silent clips, then normalizes and saves the rest
func (r *CommandRecorder) check(clip Clip) (Clip, error) {
	if clip.Empty() {
		return Clip{}, ErrNoAudio
	}

	peak := clip.Peak()
	fmt.Fprintf(r.out, "Maximum audio level: %.4f\n", peak)
	if peak < r.cfg.SilenceThreshold {
		return Clip{}, fmt.Errorf("%w (peak %.4f, threshold %.4f): speak louder or check your microphone", ErrSilent, peak, r.cfg.SilenceThreshold)
	}

	normalized := clip.Normalize(NormalizedPeak)
	if err := normalized.Save(r.scratchPath); err != nil {
		return Clip{}, err
	}
	slog.Debug("recording saved", "path", r.scratchPath, "duration", normalized.Duration(), "peak", peak)
	return normalized, nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		if msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
