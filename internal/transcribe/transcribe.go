// Package transcribe defines the speech-to-text interface used by the session.
//
// Backends live in subpackages: openai (Whisper API), local (self-hosted
// Whisper, OpenAI-compatible or whisper-asr-webservice) and deepgram
// (streaming WebSocket API).
package transcribe

import (
	"context"

	"github.com/xolan/voicesheet/internal/audio"
)

// Transcriber converts a recorded clip to text.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "openai", "local").
	Name() string

	// Transcribe returns the text spoken in clip.
	Transcribe(ctx context.Context, clip audio.Clip) (string, error)
}
