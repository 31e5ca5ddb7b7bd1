// Package openai implements transcription with OpenAI's Audio Transcription API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/xolan/voicesheet/internal/apiclient"
	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/transcribe"
)

const transcriptionPath = "/v1/audio/transcriptions"

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("openai api key not set (set OPENAI_API_KEY or transcriber.openai.api_key)")

// Transcriber uses the OpenAI Whisper API.
type Transcriber struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

var _ transcribe.Transcriber = (*Transcriber)(nil)

// New creates a new OpenAI transcriber from config.
func New(cfg config.OpenAITranscribeConfig) *Transcriber {
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	return &Transcriber{
		apiKey: cfg.APIKey,
		model:  model,
		url:    strings.TrimRight(cfg.BaseURL, "/") + transcriptionPath,
		client: apiclient.NewHTTPClient(),
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "openai" }

// Transcribe uploads the clip as a WAV file and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	if t.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", clip.Filename())
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(clip.WAV()); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	_ = writer.WriteField("model", t.model)
	_ = writer.WriteField("response_format", "json")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if err := apiclient.CheckResponse(resp, "transcription"); err != nil {
		return "", err
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transcription: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	slog.Debug("transcription complete", "backend", t.Name(), "model", t.model, "text_length", len(text))
	return text, nil
}
