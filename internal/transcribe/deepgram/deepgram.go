// Package deepgram implements transcription over Deepgram's streaming WebSocket API.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xolan/voicesheet/internal/apiclient"
	"github.com/xolan/voicesheet/internal/audio"
	"github.com/xolan/voicesheet/internal/config"
	"github.com/xolan/voicesheet/internal/transcribe"
)

const (
	defaultURL = "wss://api.deepgram.com/v1/listen"
	// chunkBytes is 100ms of 16 kHz mono linear16
	chunkBytes = 3200
)

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("deepgram api key not set (set DEEPGRAM_API_KEY or transcriber.deepgram.api_key)")

// messageType is used to determine the type of a Deepgram message
type messageType struct {
	Type string `json:"type"`
}

// transcriptResponse represents Deepgram's transcript response
type transcriptResponse struct {
	Type    string `json:"type"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	IsFinal bool `json:"is_final"`
}

// Transcriber streams a clip to Deepgram and collects the final transcripts.
type Transcriber struct {
	apiKey  string
	url     string
	dialer  *websocket.Dialer
	timeout time.Duration
}

var _ transcribe.Transcriber = (*Transcriber)(nil)

// New creates a new Deepgram transcriber from config.
func New(cfg config.DeepgramConfig) *Transcriber {
	u := cfg.URL
	if u == "" {
		u = defaultURL
	}
	return &Transcriber{
		apiKey:  cfg.APIKey,
		url:     u,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		timeout: apiclient.DefaultTimeout,
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "deepgram" }

// listenURL builds the connection URL with the clip's audio format
func (t *Transcriber) listenURL(clip audio.Clip) (string, error) {
	u, err := url.Parse(t.url)
	if err != nil {
		return "", fmt.Errorf("invalid deepgram url: %w", err)
	}
	channels := clip.Channels
	if channels <= 0 {
		channels = 1
	}
	q := u.Query()
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(clip.SampleRate))
	q.Set("channels", strconv.Itoa(channels))
	q.Set("punctuate", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Transcribe streams the clip's PCM in chunks, sends CloseStream, and joins
// every final transcript received until the server closes the connection.
// The whole exchange is bounded by the same timeout as the HTTP backends.
func (t *Transcriber) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	if t.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	listenURL, err := t.listenURL(clip)
	if err != nil {
		return "", err
	}

	header := http.Header{}
	header.Set("Authorization", "Token "+t.apiKey)

	conn, resp, err := t.dialer.DialContext(ctx, listenURL, header)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("deepgram connection failed (status %d): %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("deepgram connection failed: %w", err)
	}
	defer conn.Close()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := readTranscripts(conn)
		done <- result{text, err}
	}()

	pcm := clip.PCM()
	for off := 0; off < len(pcm); off += chunkBytes {
		end := off + chunkBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, pcm[off:end]); err != nil {
			return "", fmt.Errorf("sending audio: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		return "", fmt.Errorf("closing stream: %w", err)
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("deepgram did not finish within %s: %w", t.timeout, ctx.Err())
		}
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		slog.Debug("deepgram transcription complete", "text_length", len(r.text))
		return r.text, nil
	}
}

// readTranscripts reads until the server closes, collecting final Results
func readTranscripts(conn *websocket.Conn) (string, error) {
	var parts []string
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return strings.Join(parts, " "), nil
			}
			return "", fmt.Errorf("reading deepgram response: %w", err)
		}

		var msgType messageType
		if err := json.Unmarshal(message, &msgType); err != nil {
			continue
		}

		switch msgType.Type {
		case "Results":
			var resp transcriptResponse
			if err := json.Unmarshal(message, &resp); err != nil {
				continue
			}
			if !resp.IsFinal || len(resp.Channel.Alternatives) == 0 {
				continue
			}
			if text := strings.TrimSpace(resp.Channel.Alternatives[0].Transcript); text != "" {
				parts = append(parts, text)
			}
		case "Error":
			return "", fmt.Errorf("deepgram error: %s", message)
		}
	}
}
