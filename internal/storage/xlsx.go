package storage

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/xolan/voicesheet/internal/entry"
)

// XLSXStore keeps the timesheet in the first sheet of an Excel workbook
type XLSXStore struct {
	path string
}

// NewXLSXStore returns a store backed by the workbook at path
func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

// Path returns the backing file
func (s *XLSXStore) Path() string {
	return s.path
}

// Append adds one row after the last used row of the first sheet.
// A missing workbook, or one whose first sheet is empty, gets a bold
// header row first. The workbook is
// written to a temp file and renamed into place, so a failed save leaves
// the previous file untouched.
func (s *XLSXStore) Append(e entry.Entry) error {
	f, err := s.openOrCreate()
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		if err := writeHeader(f, sheet); err != nil {
			return &StoreError{Op: "append", Path: s.path, Err: err}
		}
		next = 2
	}

	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	row := toCells(e.Row())
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}

	if err := s.save(f); err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	return nil
}

// ReadAll returns all data rows of the first sheet.
// Returns an empty slice if the workbook doesn't exist.
func (s *XLSXStore) ReadAll() ([]entry.Entry, error) {
	entries := []entry.Entry{}

	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return entries, &StoreError{Op: "read", Path: s.path, Err: err}
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return entries, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return entries, &StoreError{Op: "read", Path: s.path, Err: err}
	}

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		entries = append(entries, entry.FromRow(row))
	}

	return entries, nil
}

func (s *XLSXStore) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(s.path); err == nil {
		return excelize.OpenFile(s.path)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return excelize.NewFile(), nil
}

func writeHeader(f *excelize.File, sheet string) error {
	header := toCells(entry.Columns)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(entry.Columns), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return err
	}
	_ = f.SetColWidth(sheet, "A", "E", 14)
	_ = f.SetColWidth(sheet, "F", "F", 48)
	return nil
}

func (s *XLSXStore) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".timesheet-*.xlsx")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	_ = os.Chmod(tmpPath, 0644)
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
