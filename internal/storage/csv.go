package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/xolan/voicesheet/internal/entry"
)

// CSVStore keeps the timesheet as a comma-separated file
type CSVStore struct {
	path string
}

// NewCSVStore returns a store backed by the CSV file at path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file
func (s *CSVStore) Path() string {
	return s.path
}

// Append adds one row. The header is written first when the file is new or empty.
// A file that doesn't end in a newline gets one before the row.
// Uses O_APPEND and a single write so a row is never split.
func (s *CSVStore) Append(e entry.Entry) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if info.Size() == 0 {
		_ = writer.Write(entry.Columns)
	} else {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err != nil {
			return &StoreError{Op: "append", Path: s.path, Err: err}
		}
		if last[0] != '\n' {
			buf.WriteByte('\n')
		}
	}
	_ = writer.Write(e.Row())
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	return nil
}

// ReadAll returns all data rows. Returns an empty slice if the file doesn't exist.
func (s *CSVStore) ReadAll() ([]entry.Entry, error) {
	entries := []entry.Entry{}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return entries, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, &StoreError{Op: "read", Path: s.path, Err: err}
		}
		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}
		entries = append(entries, entry.FromRow(row))
	}

	return entries, nil
}
