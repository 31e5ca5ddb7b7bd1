// Package extract turns a transcript into a timesheet extraction block
// using a language model.
//
// Backends live in subpackages: openai (Chat Completions) and ollama
// (local /api/generate or any OpenAI-compatible chat endpoint).
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SystemMessage is the system role content sent with every extraction request
const SystemMessage = "You extract timesheet entries from transcribed text."

// Extractor asks a language model for "Key: Value" entry blocks.
type Extractor interface {
	// Name returns the backend identifier (e.g., "openai", "ollama").
	Name() string

	// Extract returns the model's extraction block for transcript.
	Extract(ctx context.Context, transcript string) (string, error)
}

// BuildPrompt returns the user prompt for transcript. now supplies today's
// date so the model can fill in a date the speaker left out.
func BuildPrompt(transcript string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("The following is a transcription of daily activities. Extract the data in the following format:\n\n")
	sb.WriteString("Date: [MM-DD-YY]\n")
	sb.WriteString("Day: [Day of the week]\n")
	sb.WriteString("Start Time: [HH:MM AM/PM]\n")
	sb.WriteString("End Time: [HH:MM AM/PM]\n")
	sb.WriteString("Time Elapsed: [X hrs]\n")
	sb.WriteString("Task: [Task Description]\n\n")
	sb.WriteString("If a date is not specified, assume today's date. If a day is not specified, derive it from the date.\n")
	sb.WriteString("If multiple activities are mentioned, extract each as a separate entry and separate entries with a blank line.\n")
	fmt.Fprintf(&sb, "Today is %s, %s.\n\n", now.Format("Monday"), now.Format("01-02-06"))
	fmt.Fprintf(&sb, "Transcription: '%s'\n", transcript)
	return sb.String()
}
