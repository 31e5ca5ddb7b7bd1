package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
)

func testClip() audio.Clip {
	return audio.Clip{Path: "/tmp/capture.wav", SampleRate: 16000, Channels: 1, Samples: []int16{1, 2, 3}}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q, expected /v1/audio/transcriptions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q, expected whisper-1", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "capture.wav" {
			t.Errorf("filename = %q, expected capture.wav", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if !strings.HasPrefix(string(data), "RIFF") {
			t.Error("uploaded file is not a WAV")
		}
		_, _ = io.WriteString(w, `{"text":"  I worked on the report from nine to noon. "}`)
	}))
	defer srv.Close()

	tr := New(config.OpenAITranscribeConfig{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	text, err := tr.Transcribe(context.Background(), testClip())
	if err != nil {
		t.Fatalf("Transcribe() returned unexpected error: %v", err)
	}
	if text != "I worked on the report from nine to noon." {
		t.Errorf("Transcribe() = %q", text)
	}
	if tr.Name() != "openai" {
		t.Errorf("Name() = %q", tr.Name())
	}
}

func TestTranscribe_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "rate limited")
	}))
	defer srv.Close()

	tr := New(config.OpenAITranscribeConfig{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := tr.Transcribe(context.Background(), testClip())
	if err == nil || !strings.Contains(err.Error(), "status 429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Transcribe() error = %v, expected status and body", err)
	}
}

func TestTranscribe_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer srv.Close()

	tr := New(config.OpenAITranscribeConfig{APIKey: "sk-test", BaseURL: srv.URL})
	if _, err := tr.Transcribe(context.Background(), testClip()); err == nil {
		t.Error("Transcribe() expected decode error")
	}
}

func TestTranscribe_MissingKey(t *testing.T) {
	tr := New(config.OpenAITranscribeConfig{BaseURL: "http://127.0.0.1:1"})
	if _, err := tr.Transcribe(context.Background(), testClip()); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Transcribe() error = %v, expected ErrMissingAPIKey", err)
	}
}
