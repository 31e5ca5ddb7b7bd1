// Package storage persists timesheet entries as rows of an append-only table.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xolan/voicesheet/internal/app"
	"github.com/xolan/voicesheet/internal/entry"
)

// TimesheetFile is the default name of the timesheet inside the app directory
const TimesheetFile = "timesheet.xlsx"

// ErrUnsupportedFormat is returned by Open for paths that are neither .csv nor .xlsx
var ErrUnsupportedFormat = errors.New("unsupported timesheet format (use .csv or .xlsx)")

// Store is an append-only table of entries with the entry.Columns header row.
type Store interface {
	// Append writes one entry as a new row, creating the store with its
	// header first if needed. The row is written whole or not at all.
	Append(e entry.Entry) error
	// ReadAll returns every row in insertion order. A store that does not
	// exist yet reads as empty.
	ReadAll() ([]entry.Entry, error)
	// Path returns the backing file
	Path() string
}

// StoreError reports a failed store operation
type StoreError struct {
	Op   string // "append" or "read"
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("timesheet %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Open returns the store for path, chosen by file extension
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVStore(path), nil
	case ".xlsx":
		return NewXLSXStore(path), nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// SupportedPath reports whether Open accepts the path's extension
func SupportedPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// GetStoragePath returns the path to the default timesheet file.
// Uses the per-user app directory, creating it if it doesn't exist.
func GetStoragePath() (string, error) {
	dir, err := app.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TimesheetFile), nil
}

func isHeader(row []string) bool {
	if len(row) < len(entry.Columns) {
		return false
	}
	for i, column := range entry.Columns {
		if strings.TrimSpace(row[i]) != column {
			return false
		}
	}
	return true
}
