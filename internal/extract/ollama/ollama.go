// Package ollama implements extraction with a self-hosted language model.
//
// An endpoint ending in /api/generate gets Ollama's native request; any
// other endpoint is treated as OpenAI-compatible chat completions (Ollama,
// vLLM, llama.cpp server).
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xolan/voicesheet/internal/apiclient"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/extract"
)

// Extractor posts the extraction prompt to a local model server.
type Extractor struct {
	endpoint string
	model    string
	client   *http.Client
	now      func() time.Time
}

var _ extract.Extractor = (*Extractor)(nil)

// New creates a new local extractor from config.
func New(cfg config.OllamaConfig) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	return &Extractor{
		endpoint: cfg.Endpoint,
		model:    model,
		client:   apiclient.NewHTTPClient(),
		now:      time.Now,
	}
}

// Name returns the backend identifier.
func (e *Extractor) Name() string { return "ollama" }

// Extract sends the prompt and returns the model's text.
func (e *Extractor) Extract(ctx context.Context, transcript string) (string, error) {
	prompt := extract.BuildPrompt(transcript, e.now())

	var reqBody map[string]any
	if strings.HasSuffix(e.endpoint, "/api/generate") {
		reqBody = map[string]any{
			"model":  e.model,
			"system": extract.SystemMessage,
			"prompt": prompt,
			"stream": false,
		}
	} else {
		reqBody = map[string]any{
			"model": e.model,
			"messages": []map[string]string{
				{"role": "system", "content": extract.SystemMessage},
				{"role": "user", "content": prompt},
			},
			"stream": false,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local LLM request: %w", err)
	}
	defer resp.Body.Close()

	if err := apiclient.CheckResponse(resp, "local LLM"); err != nil {
		return "", err
	}

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	content := strings.TrimSpace(extractContent(respData))
	slog.Debug("local extraction complete", "model", e.model, "content_length", len(content))
	return content, nil
}

// extractContent reads the text from an Ollama or OpenAI-compatible response,
// falling back to the raw body.
func extractContent(data []byte) string {
	// OpenAI-compatible format: {"choices": [{"message": {"content": "..."}}]}
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chatResp); err == nil && len(chatResp.Choices) > 0 {
		return chatResp.Choices[0].Message.Content
	}

	// Ollama format: {"response": "..."}
	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &ollamaResp); err == nil && ollamaResp.Response != "" {
		return ollamaResp.Response
	}

	// Ollama's /api/chat: {"message": {"content": "..."}}
	var ollamaChat struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &ollamaChat); err == nil && ollamaChat.Message.Content != "" {
		return ollamaChat.Message.Content
	}

	if json.Valid(data) {
		return ""
	}
	return string(data)
}
