package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/extract"
)

func TestExtract_Generate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		_, _ = io.WriteString(w, `{"model":"llama3","response":"Date: 01-02-24\nTask: Email","done":true}`)
	}))
	defer srv.Close()

	e := New(config.OllamaConfig{Endpoint: srv.URL + "/api/generate"})
	content, err := e.Extract(context.Background(), "answered email")
	if err != nil {
		t.Fatalf("Extract() returned unexpected error: %v", err)
	}
	if content != "Date: 01-02-24\nTask: Email" {
		t.Errorf("Extract() = %q", content)
	}

	if got["model"] != "llama3" || got["stream"] != false || got["system"] != extract.SystemMessage {
		t.Errorf("request = %v", got)
	}
	if prompt, _ := got["prompt"].(string); !strings.Contains(prompt, "Transcription: 'answered email'") {
		t.Errorf("prompt = %q", prompt)
	}
	if _, ok := got["messages"]; ok {
		t.Error("generate request should not carry messages")
	}
}

func TestExtract_ChatCompatible(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Task: Review"}}]}`)
	}))
	defer srv.Close()

	e := New(config.OllamaConfig{Endpoint: srv.URL + "/v1/chat/completions", Model: "mistral"})
	content, err := e.Extract(context.Background(), "reviewed PRs")
	if err != nil {
		t.Fatalf("Extract() returned unexpected error: %v", err)
	}
	if content != "Task: Review" {
		t.Errorf("Extract() = %q", content)
	}
	if got["model"] != "mistral" {
		t.Errorf("model = %v, expected mistral", got["model"])
	}
	if msgs, ok := got["messages"].([]any); !ok || len(msgs) != 2 {
		t.Errorf("messages = %v, expected system and user", got["messages"])
	}
}

func TestExtract_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := New(config.OllamaConfig{Endpoint: srv.URL + "/api/generate"})
	_, err := e.Extract(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Errorf("Extract() error = %v, expected status 404", err)
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{"openai", `{"choices":[{"message":{"content":"a"}}]}`, "a"},
		{"generate", `{"response":"b"}`, "b"},
		{"chat", `{"message":{"role":"assistant","content":"c"}}`, "c"},
		{"plain text", "Task: d", "Task: d"},
		{"empty json", `{"response":""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractContent([]byte(tt.data)); got != tt.expected {
				t.Errorf("extractContent(%q) = %q, expected %q", tt.data, got, tt.expected)
			}
		})
	}
}
