package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/voicesheet/internal/config"
)

func testRecorderConfig() config.RecorderConfig {
	return config.RecorderConfig{
		Program:          "ffmpeg",
		Format:           "alsa",
		Device:           "default",
		SampleRate:       16000,
		CountdownSeconds: 3,
		SilenceThreshold: 0.01,
	}
}

// newTestRecorder returns a recorder whose capture program writes clip to the scratch file.
// A nil clip writes nothing.
func newTestRecorder(t *testing.T, clip *Clip) (*CommandRecorder, *bytes.Buffer, *[]string) {
	t.Helper()
	var out bytes.Buffer
	var gotArgs []string

	r := NewCommandRecorder(testRecorderConfig(), filepath.Join(t.TempDir(), "capture.wav"), &out)
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	r.run = func(ctx context.Context, name string, args ...string) error {
		gotArgs = append([]string{name}, args...)
		if clip == nil {
			return nil
		}
		return clip.Save(args[len(args)-1])
	}
	return r, &out, &gotArgs
}

func TestCommandRecorder_Args(t *testing.T) {
	r := NewCommandRecorder(testRecorderConfig(), "/tmp/capture.wav", nil)

	got := strings.Join(r.Args(15*time.Second), " ")
	expected := "-hide_banner -loglevel error -y -f alsa -i default -t 15 -ac 1 -ar 16000 -c:a pcm_s16le /tmp/capture.wav"
	if got != expected {
		t.Errorf("Args() = %q\nexpected %q", got, expected)
	}

	// fractional durations round up
	if got := r.Args(1500 * time.Millisecond); got[9] != "2" {
		t.Errorf("Args(1.5s) duration = %q, expected 2", got[9])
	}
}

func TestCommandRecorder_Record(t *testing.T) {
	r, out, args := newTestRecorder(t, &Clip{SampleRate: 16000, Channels: 1, Samples: []int16{100, -3000, 2000}})

	clip, err := r.Record(context.Background(), 15*time.Second)
	if err != nil {
		t.Fatalf("Record() returned unexpected error: %v", err)
	}

	if (*args)[0] != "ffmpeg" {
		t.Errorf("ran %q, expected ffmpeg", (*args)[0])
	}
	if peak := clip.Peak(); peak < 0.89 || peak > 0.91 {
		t.Errorf("Record() clip peak = %v, expected normalized to ~0.9", peak)
	}

	output := out.String()
	for _, want := range []string{"Recording for 15 seconds...", "Starting in 3...", "Starting in 1...", "Recording NOW", "Maximum audio level: 0.0916"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	// the normalized clip replaces the raw capture on disk
	saved, err := LoadClip(r.scratchPath)
	if err != nil {
		t.Fatalf("LoadClip(scratch) returned error: %v", err)
	}
	if saved.Peak() != clip.Peak() {
		t.Errorf("scratch peak = %v, expected %v", saved.Peak(), clip.Peak())
	}
}

func TestCommandRecorder_NoCountdown(t *testing.T) {
	r, out, _ := newTestRecorder(t, &Clip{SampleRate: 16000, Channels: 1, Samples: []int16{5000}})
	r.cfg.CountdownSeconds = 0

	if _, err := r.Record(context.Background(), time.Second); err != nil {
		t.Fatalf("Record() returned unexpected error: %v", err)
	}
	if strings.Contains(out.String(), "Starting in") {
		t.Errorf("countdown printed with CountdownSeconds = 0:\n%s", out.String())
	}
}

func TestCommandRecorder_Failures(t *testing.T) {
	tests := []struct {
		name string
		clip *Clip
		want error
	}{
		{"nothing written", nil, ErrNoAudio},
		{"zero samples", &Clip{SampleRate: 16000, Channels: 1}, ErrNoAudio},
		{"silence", &Clip{SampleRate: 16000, Channels: 1, Samples: []int16{0, 3, -2}}, ErrSilent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRecorder(t, tt.clip)
			_, err := r.Record(context.Background(), time.Second)
			if !errors.Is(err, tt.want) {
				t.Errorf("Record() error = %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestCommandRecorder_StaleScratchIgnored(t *testing.T) {
	r, _, _ := newTestRecorder(t, nil)
	if err := (Clip{SampleRate: 16000, Channels: 1, Samples: []int16{9000}}).Save(r.scratchPath); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Record(context.Background(), time.Second); !errors.Is(err, ErrNoAudio) {
		t.Errorf("Record() error = %v, expected ErrNoAudio when the program wrote nothing", err)
	}
	if _, err := os.Stat(r.scratchPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("stale scratch file should have been removed")
	}
}

func TestCommandRecorder_ProgramError(t *testing.T) {
	r, _, _ := newTestRecorder(t, nil)
	r.run = func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1: Device or resource busy")
	}

	_, err := r.Record(context.Background(), time.Second)
	if err == nil || !strings.Contains(err.Error(), "ffmpeg: exit status 1") {
		t.Errorf("Record() error = %v, expected wrapped program error", err)
	}
}

func TestCommandRecorder_CancelledDuringCountdown(t *testing.T) {
	r, _, args := newTestRecorder(t, &Clip{SampleRate: 16000, Channels: 1, Samples: []int16{5000}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Record(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("Record() error = %v, expected context.Canceled", err)
	}
	if len(*args) != 0 {
		t.Error("capture program ran after cancellation")
	}
}

func TestCommandRecorder_InvalidDuration(t *testing.T) {
	r, _, _ := newTestRecorder(t, nil)
	if _, err := r.Record(context.Background(), 0); err == nil {
		t.Error("Record(0) should return error")
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext() returned %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext(cancelled) = %v, expected context.Canceled", err)
	}
}
