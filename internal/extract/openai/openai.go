// Package openai implements extraction with OpenAI's Chat Completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xolan/voicesheet/internal/apiclient"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/extract"
)

const chatPath = "/v1/chat/completions"

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("openai api key not set (set OPENAI_API_KEY or extractor.openai.api_key)")

// Extractor uses the Chat Completions API.
type Extractor struct {
	apiKey      string
	model       string
	temperature float64
	url         string
	client      *http.Client
	now         func() time.Time
}

var _ extract.Extractor = (*Extractor)(nil)

// New creates a new OpenAI extractor from config.
func New(cfg config.OpenAIExtractConfig) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "gpt-4"
	}
	return &Extractor{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		url:         strings.TrimRight(cfg.BaseURL, "/") + chatPath,
		client:      apiclient.NewHTTPClient(),
		now:         time.Now,
	}
}

// Name returns the backend identifier.
func (e *Extractor) Name() string { return "openai" }

// Extract sends the extraction prompt and returns the first choice's content.
func (e *Extractor) Extract(ctx context.Context, transcript string) (string, error) {
	if e.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extract.SystemMessage},
			{Role: "user", Content: extract.BuildPrompt(transcript, e.now())},
		},
		Temperature: e.temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if err := apiclient.CheckResponse(resp, "chat"); err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from chat API")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	slog.Debug("extraction complete", "backend", e.Name(), "model", e.model, "content_length", len(content))
	return content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
