// Package local implements transcription against a self-hosted Whisper server.
//
// Two flavors are supported:
//   - "openai": OpenAI-compatible API (whisper.cpp server, faster-whisper)
//   - "asr":    ahmetoner/whisper-asr-webservice (POST /asr with query params)
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/xolan/voicesheet/internal/apiclient"
	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/transcribe"
)

// Transcriber uses a local Whisper-compatible endpoint.
type Transcriber struct {
	endpoint    string
	whisperType string
	language    string
	client      *http.Client
}

var _ transcribe.Transcriber = (*Transcriber)(nil)

// New creates a new local transcriber from config.
func New(cfg config.LocalTranscribeConfig) *Transcriber {
	wt := cfg.Type
	if wt == "" {
		wt = "openai"
	}
	return &Transcriber{
		endpoint:    cfg.Endpoint,
		whisperType: wt,
		language:    cfg.Language,
		client:      apiclient.NewHTTPClient(),
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "local" }

// Transcribe sends the clip to the configured endpoint.
func (t *Transcriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	var (
		text string
		err  error
	)
	switch t.whisperType {
	case "asr":
		text, err = t.transcribeASR(ctx, clip)
	default:
		text, err = t.transcribeOpenAI(ctx, clip)
	}
	if err != nil {
		return "", err
	}
	slog.Debug("local transcription complete", "type", t.whisperType, "text_length", len(text))
	return text, nil
}

// transcribeASR handles the whisper-asr-webservice format.
// API: POST /asr?task=transcribe&language=en&output=json
// Body: multipart/form-data with field "audio_file"
func (t *Transcriber) transcribeASR(ctx context.Context, clip audio.Clip) (string, error) {
	body, contentType, err := form("audio_file", clip, nil)
	if err != nil {
		return "", err
	}

	q := make(url.Values)
	q.Set("task", "transcribe")
	q.Set("output", "json")
	if t.language != "" {
		q.Set("language", t.language)
	}

	reqURL := t.endpoint + "?" + q.Encode()
	slog.Debug("whisper-asr request", "url", reqURL)
	return t.post(ctx, reqURL, body, contentType, "asr transcription")
}

// transcribeOpenAI handles OpenAI-compatible whisper endpoints.
func (t *Transcriber) transcribeOpenAI(ctx context.Context, clip audio.Clip) (string, error) {
	fields := map[string]string{"response_format": "json"}
	if t.language != "" {
		fields["language"] = t.language
	}
	body, contentType, err := form("file", clip, fields)
	if err != nil {
		return "", err
	}
	return t.post(ctx, t.endpoint, body, contentType, "local transcription")
}

func (t *Transcriber) post(ctx context.Context, reqURL string, body *bytes.Buffer, contentType, what string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", what, err)
	}
	defer resp.Body.Close()

	if err := apiclient.CheckResponse(resp, what); err != nil {
		return "", err
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding %s: %w", what, err)
	}
	return strings.TrimSpace(result.Text), nil
}

func form(fileField string, clip audio.Clip, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fileField, clip.Filename())
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(clip.WAV()); err != nil {
		return nil, "", fmt.Errorf("writing audio: %w", err)
	}
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
