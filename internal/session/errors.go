package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTranscript is returned when transcription produced no text
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrEmptyExtraction is returned when the language model returned nothing
	ErrEmptyExtraction = errors.New("extraction returned no text")
)

// RecordError reports a failed or rejected recording
type RecordError struct {
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("recording failed: %v", e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// TranscribeError reports a transcription failure or an empty transcript
type TranscribeError struct {
	Backend string
	Err     error
}

func (e *TranscribeError) Error() string {
	return fmt.Sprintf("transcription (%s) failed: %v", e.Backend, e.Err)
}

func (e *TranscribeError) Unwrap() error {
	return e.Err
}

// ExtractError reports an extraction failure or an empty response
type ExtractError struct {
	Backend string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction (%s) failed: %v", e.Backend, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
