package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/extract"
	extractollama "github.com/xolan/voicesheet/internal/extract/ollama"
	extractopenai "github.com/xolan/voicesheet/internal/extract/openai"
	"github.com/xolan/voicesheet/internal/transcribe"
	"github.com/xolan/voicesheet/internal/transcribe/deepgram"
	"github.com/xolan/voicesheet/internal/transcribe/local"
	transcribeopenai "github.com/xolan/voicesheet/internal/transcribe/openai"
)

func newRecorder(cfg config.Config, out io.Writer) audio.Recorder {
	return audio.NewCommandRecorder(cfg.Recorder, cfg.ScratchPath(), out)
}

// newTranscriber selects the speech-to-text backend named by cfg.Backend.
// Hosted backends without an API key are rejected before anything is recorded.
func newTranscriber(cfg config.TranscriberConfig) (transcribe.Transcriber, error) {
	switch cfg.Backend {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, transcribeopenai.ErrMissingAPIKey
		}
		return transcribeopenai.New(cfg.OpenAI), nil
	case "local":
		return local.New(cfg.Local), nil
	case "deepgram":
		if cfg.Deepgram.APIKey == "" {
			return nil, deepgram.ErrMissingAPIKey
		}
		return deepgram.New(cfg.Deepgram), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend: %q", cfg.Backend)
	}
}

// newExtractor selects the entry extraction backend named by cfg.Backend
func newExtractor(cfg config.ExtractorConfig) (extract.Extractor, error) {
	switch cfg.Backend {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, extractopenai.ErrMissingAPIKey
		}
		return extractopenai.New(cfg.OpenAI), nil
	case "ollama":
		return extractollama.New(cfg.Ollama), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend: %q", cfg.Backend)
	}
}

func isMissingKey(err error) bool {
	return errors.Is(err, transcribeopenai.ErrMissingAPIKey) ||
		errors.Is(err, deepgram.ErrMissingAPIKey) ||
		errors.Is(err, extractopenai.ErrMissingAPIKey)
}

// backendHint explains how to fix a backend construction error
func backendHint(err error, valid string) string {
	if isMissingKey(err) {
		return "Export the API key, or set api_key in the config file ('voicesheet config' shows where)"
	}
	return valid
}
