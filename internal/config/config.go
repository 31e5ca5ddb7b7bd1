// Package config loads and validates the voicesheet configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/xolan/voicesheet/internal/app"
	"github.com/xolan/voicesheet/internal/storage"
)

// ConfigFile is the name of the TOML configuration file
const ConfigFile = "config.toml"

// Config is the root configuration. It is passed to the session at
// construction; nothing reads configuration from globals.
type Config struct {
	// StorePath is the timesheet file (.xlsx or .csv). Empty means the default in the app directory.
	StorePath string `mapstructure:"store_path" toml:"store_path"`
	// AudioScratchPath is where captured audio is written. Empty means the temp directory.
	AudioScratchPath string `mapstructure:"audio_scratch_path" toml:"audio_scratch_path"`
	// CaptureDurationSeconds is the fixed recording length
	CaptureDurationSeconds int `mapstructure:"capture_duration_seconds" toml:"capture_duration_seconds"`

	Recorder    RecorderConfig    `mapstructure:"recorder" toml:"recorder"`
	Transcriber TranscriberConfig `mapstructure:"transcriber" toml:"transcriber"`
	Extractor   ExtractorConfig   `mapstructure:"extractor" toml:"extractor"`
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging"`
	TUI         TUIConfig         `mapstructure:"tui" toml:"tui"`
}

// RecorderConfig configures microphone capture through an external program.
type RecorderConfig struct {
	Program          string  `mapstructure:"program" toml:"program"`
	Format           string  `mapstructure:"format" toml:"format"` // ffmpeg input format: alsa, pulse, avfoundation, dshow
	Device           string  `mapstructure:"device" toml:"device"`
	SampleRate       int     `mapstructure:"sample_rate" toml:"sample_rate"`
	CountdownSeconds int     `mapstructure:"countdown_seconds" toml:"countdown_seconds"`
	SilenceThreshold float64 `mapstructure:"silence_threshold" toml:"silence_threshold"` // peak below this fraction of full scale is silence
}

// TranscriberConfig selects and configures the speech-to-text backend.
type TranscriberConfig struct {
	Backend  string                `mapstructure:"backend" toml:"backend"` // "openai", "local" or "deepgram"
	OpenAI   OpenAITranscribeConfig `mapstructure:"openai" toml:"openai"`
	Local    LocalTranscribeConfig  `mapstructure:"local" toml:"local"`
	Deepgram DeepgramConfig         `mapstructure:"deepgram" toml:"deepgram"`
}

// OpenAITranscribeConfig holds OpenAI audio transcription settings.
type OpenAITranscribeConfig struct {
	APIKey  string `mapstructure:"api_key" toml:"api_key"`
	Model   string `mapstructure:"model" toml:"model"`
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
}

// LocalTranscribeConfig holds self-hosted Whisper settings.
type LocalTranscribeConfig struct {
	Endpoint string `mapstructure:"endpoint" toml:"endpoint"`
	Type     string `mapstructure:"type" toml:"type"`         // "openai" (default) or "asr" (whisper-asr-webservice)
	Language string `mapstructure:"language" toml:"language"` // ISO-639-1, empty for auto-detect
}

// DeepgramConfig holds Deepgram streaming settings.
type DeepgramConfig struct {
	APIKey string `mapstructure:"api_key" toml:"api_key"`
	URL    string `mapstructure:"url" toml:"url"`
}

// ExtractorConfig selects and configures the language model that turns transcripts into entries.
type ExtractorConfig struct {
	Backend string              `mapstructure:"backend" toml:"backend"` // "openai" or "ollama"
	OpenAI  OpenAIExtractConfig `mapstructure:"openai" toml:"openai"`
	Ollama  OllamaConfig        `mapstructure:"ollama" toml:"ollama"`
}

// OpenAIExtractConfig holds Chat Completions settings.
type OpenAIExtractConfig struct {
	APIKey      string  `mapstructure:"api_key" toml:"api_key"`
	Model       string  `mapstructure:"model" toml:"model"`
	BaseURL     string  `mapstructure:"base_url" toml:"base_url"`
	Temperature float64 `mapstructure:"temperature" toml:"temperature"`
}

// OllamaConfig holds local LLM settings.
type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint" toml:"endpoint"`
	Model    string `mapstructure:"model" toml:"model"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" toml:"format"` // text, json
}

// TUIConfig holds settings for the interactive timesheet viewer.
type TUIConfig struct {
	Theme string `mapstructure:"theme" toml:"theme"` // bubbletint theme ID, e.g. "dracula"
}

// Valid backend names
var (
	ValidTranscriberBackends = []string{"openai", "local", "deepgram"}
	ValidLocalTypes          = []string{"openai", "asr"}
	ValidExtractorBackends   = []string{"openai", "ollama"}
	ValidLogLevels           = []string{"debug", "info", "warn", "error"}
	ValidLogFormats          = []string{"text", "json"}
)

// DefaultConfig returns a Config with the defaults used when no file or env var overrides them.
func DefaultConfig() Config {
	format, device := defaultCaptureInput(runtime.GOOS)
	return Config{
		StorePath:              "",
		AudioScratchPath:       "",
		CaptureDurationSeconds: 15,
		Recorder: RecorderConfig{
			Program:          "ffmpeg",
			Format:           format,
			Device:           device,
			SampleRate:       16000,
			CountdownSeconds: 3,
			SilenceThreshold: 0.01,
		},
		Transcriber: TranscriberConfig{
			Backend: "openai",
			OpenAI: OpenAITranscribeConfig{
				APIKey:  "${OPENAI_API_KEY}",
				Model:   "whisper-1",
				BaseURL: "https://api.openai.com",
			},
			Local: LocalTranscribeConfig{
				Endpoint: "http://localhost:8000/v1/audio/transcriptions",
				Type:     "openai",
			},
			Deepgram: DeepgramConfig{
				APIKey: "${DEEPGRAM_API_KEY}",
				URL:    "wss://api.deepgram.com/v1/listen",
			},
		},
		Extractor: ExtractorConfig{
			Backend: "openai",
			OpenAI: OpenAIExtractConfig{
				APIKey:      "${OPENAI_API_KEY}",
				Model:       "gpt-4",
				BaseURL:     "https://api.openai.com",
				Temperature: 0.1,
			},
			Ollama: OllamaConfig{
				Endpoint: "http://localhost:11434/api/generate",
				Model:    "llama3",
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		TUI: TUIConfig{
			Theme: "dracula",
		},
	}
}

// defaultCaptureInput returns the ffmpeg input format and device for the platform
func defaultCaptureInput(goos string) (format, device string) {
	switch goos {
	case "darwin":
		return "avfoundation", ":0"
	case "windows":
		return "dshow", "audio=Microphone"
	default:
		return "alsa", "default"
	}
}

// CaptureDuration returns the recording length as a time.Duration
func (c Config) CaptureDuration() time.Duration {
	return time.Duration(c.CaptureDurationSeconds) * time.Second
}

// ScratchPath returns AudioScratchPath, or the default temp location when unset
func (c Config) ScratchPath() string {
	if c.AudioScratchPath != "" {
		return c.AudioScratchPath
	}
	return app.ScratchPath()
}

// GetConfigPath returns the path to the config file.
// Uses the per-user app directory, creating it if it doesn't exist.
func GetConfigPath() (string, error) {
	dir, err := app.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// Load reads the config file at path, then applies VOICESHEET_* environment
// variables on top. Returns an error if the file doesn't exist.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(path)
}

// LoadOrDefault is Load, except a missing file yields the defaults
// (still overridden by environment variables).
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return load("")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return load("")
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(path)
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	// Environment variables: VOICESHEET_CAPTURE_DURATION_SECONDS, VOICESHEET_TRANSCRIBER_BACKEND, etc.
	v.SetEnvPrefix(strings.ToUpper(app.Name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.resolveSecrets()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("store_path", d.StorePath)
	v.SetDefault("audio_scratch_path", d.AudioScratchPath)
	v.SetDefault("capture_duration_seconds", d.CaptureDurationSeconds)
	v.SetDefault("recorder.program", d.Recorder.Program)
	v.SetDefault("recorder.format", d.Recorder.Format)
	v.SetDefault("recorder.device", d.Recorder.Device)
	v.SetDefault("recorder.sample_rate", d.Recorder.SampleRate)
	v.SetDefault("recorder.countdown_seconds", d.Recorder.CountdownSeconds)
	v.SetDefault("recorder.silence_threshold", d.Recorder.SilenceThreshold)
	v.SetDefault("transcriber.backend", d.Transcriber.Backend)
	v.SetDefault("transcriber.openai.api_key", d.Transcriber.OpenAI.APIKey)
	v.SetDefault("transcriber.openai.model", d.Transcriber.OpenAI.Model)
	v.SetDefault("transcriber.openai.base_url", d.Transcriber.OpenAI.BaseURL)
	v.SetDefault("transcriber.local.endpoint", d.Transcriber.Local.Endpoint)
	v.SetDefault("transcriber.local.type", d.Transcriber.Local.Type)
	v.SetDefault("transcriber.local.language", d.Transcriber.Local.Language)
	v.SetDefault("transcriber.deepgram.api_key", d.Transcriber.Deepgram.APIKey)
	v.SetDefault("transcriber.deepgram.url", d.Transcriber.Deepgram.URL)
	v.SetDefault("extractor.backend", d.Extractor.Backend)
	v.SetDefault("extractor.openai.api_key", d.Extractor.OpenAI.APIKey)
	v.SetDefault("extractor.openai.model", d.Extractor.OpenAI.Model)
	v.SetDefault("extractor.openai.base_url", d.Extractor.OpenAI.BaseURL)
	v.SetDefault("extractor.openai.temperature", d.Extractor.OpenAI.Temperature)
	v.SetDefault("extractor.ollama.endpoint", d.Extractor.Ollama.Endpoint)
	v.SetDefault("extractor.ollama.model", d.Extractor.Ollama.Model)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("tui.theme", d.TUI.Theme)
}

// resolveSecrets expands "${VAR}" references in API keys and falls back to
// the provider's conventional variable when a key is empty.
func (c *Config) resolveSecrets() {
	c.Transcriber.OpenAI.APIKey = secret(c.Transcriber.OpenAI.APIKey, "OPENAI_API_KEY")
	c.Transcriber.Deepgram.APIKey = secret(c.Transcriber.Deepgram.APIKey, "DEEPGRAM_API_KEY")
	c.Extractor.OpenAI.APIKey = secret(c.Extractor.OpenAI.APIKey, "OPENAI_API_KEY")
}

func secret(val, fallbackEnv string) string {
	if resolved := resolveEnvRef(val); resolved != "" {
		return resolved
	}
	return os.Getenv(fallbackEnv)
}

// resolveEnvRef replaces a "${VAR_NAME}" value with the environment variable's value.
// An unset variable resolves to the empty string.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// Normalize lower-cases and trims enum-like fields
func (c *Config) Normalize() {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	c.Transcriber.Backend = norm(c.Transcriber.Backend)
	c.Transcriber.Local.Type = norm(c.Transcriber.Local.Type)
	c.Extractor.Backend = norm(c.Extractor.Backend)
	c.Logging.Level = norm(c.Logging.Level)
	c.Logging.Format = norm(c.Logging.Format)
	c.StorePath = strings.TrimSpace(c.StorePath)
	c.TUI.Theme = norm(c.TUI.Theme)
}

// Validate checks that every setting is usable
func (c Config) Validate() error {
	if c.StorePath != "" && !storage.SupportedPath(c.StorePath) {
		return fmt.Errorf("invalid store_path %q: must end in .xlsx or .csv", c.StorePath)
	}
	if c.CaptureDurationSeconds <= 0 {
		return fmt.Errorf("invalid capture_duration_seconds %d: must be positive", c.CaptureDurationSeconds)
	}
	if c.Recorder.Program == "" {
		return fmt.Errorf("invalid recorder.program: must not be empty")
	}
	if c.Recorder.SampleRate <= 0 {
		return fmt.Errorf("invalid recorder.sample_rate %d: must be positive", c.Recorder.SampleRate)
	}
	if c.Recorder.CountdownSeconds < 0 {
		return fmt.Errorf("invalid recorder.countdown_seconds %d: must not be negative", c.Recorder.CountdownSeconds)
	}
	if c.Recorder.SilenceThreshold < 0 || c.Recorder.SilenceThreshold >= 1 {
		return fmt.Errorf("invalid recorder.silence_threshold %v: must be in [0, 1)", c.Recorder.SilenceThreshold)
	}
	if !contains(ValidTranscriberBackends, c.Transcriber.Backend) {
		return fmt.Errorf("invalid transcriber.backend %q: must be one of %s", c.Transcriber.Backend, strings.Join(ValidTranscriberBackends, ", "))
	}
	if c.Transcriber.Backend == "local" && !contains(ValidLocalTypes, c.Transcriber.Local.Type) {
		return fmt.Errorf("invalid transcriber.local.type %q: must be one of %s", c.Transcriber.Local.Type, strings.Join(ValidLocalTypes, ", "))
	}
	if !contains(ValidExtractorBackends, c.Extractor.Backend) {
		return fmt.Errorf("invalid extractor.backend %q: must be one of %s", c.Extractor.Backend, strings.Join(ValidExtractorBackends, ", "))
	}
	if c.Extractor.OpenAI.Temperature < 0 || c.Extractor.OpenAI.Temperature > 2 {
		return fmt.Errorf("invalid extractor.openai.temperature %v: must be in [0, 2]", c.Extractor.OpenAI.Temperature)
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging.level %q: must be one of %s", c.Logging.Level, strings.Join(ValidLogLevels, ", "))
	}
	if !contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging.format %q: must be one of %s", c.Logging.Format, strings.Join(ValidLogFormats, ", "))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Redacted returns a copy with API keys masked, for display
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Transcriber.OpenAI.APIKey = mask(c.Transcriber.OpenAI.APIKey)
	c.Transcriber.Deepgram.APIKey = mask(c.Transcriber.Deepgram.APIKey)
	c.Extractor.OpenAI.APIKey = mask(c.Extractor.OpenAI.APIKey)
	return c
}

// Encode writes the config as TOML
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// GenerateSampleConfig returns the contents written by "voicesheet config init":
// the defaults as TOML, with API keys left as environment references.
func GenerateSampleConfig() (string, error) {
	var sb strings.Builder
	sb.WriteString("# voicesheet configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# store_path: timesheet file (.xlsx or .csv); empty uses the app directory\n")
	sb.WriteString("# Any key can be overridden with VOICESHEET_<KEY>, e.g. VOICESHEET_TRANSCRIBER_BACKEND=local\n")
	sb.WriteString("# API keys of the form \"${VAR}\" are read from the environment.\n\n")
	if err := Encode(&sb, DefaultConfig()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// SetupLogging configures the global slog logger, writing to w.
func SetupLogging(cfg LoggingConfig, w io.Writer) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
