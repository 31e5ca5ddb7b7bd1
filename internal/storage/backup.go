package storage

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	// BackupSuffix is inserted between the timesheet name and the rotation number
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// BackupPath returns the path of backup n of the timesheet at storagePath,
// e.g. timesheet.xlsx.bak.1. Lower numbers are more recent.
func BackupPath(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3, dropping the oldest.
// Missing files are skipped.
func rotateBackups(storagePath string) error {
	if err := os.Remove(BackupPath(storagePath, MaxBackupCount)); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		if err := os.Rename(BackupPath(storagePath, i), BackupPath(storagePath, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CreateBackup copies the timesheet to .bak.1 after rotating older backups.
// A missing timesheet is not an error and creates nothing.
func CreateBackup(storagePath string) error {
	if _, err := os.Stat(storagePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := rotateBackups(storagePath); err != nil {
		return err
	}
	return copyFile(storagePath, BackupPath(storagePath, 1))
}

// BackupInfo describes one backup file
type BackupInfo struct {
	Number  int
	Path    string
	ModTime time.Time
}

// ListBackups returns the existing backups of storagePath, most recent first.
func ListBackups(storagePath string) ([]BackupInfo, error) {
	var backups []BackupInfo
	for i := 1; i <= MaxBackupCount; i++ {
		path := BackupPath(storagePath, i)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		backups = append(backups, BackupInfo{Number: i, Path: path, ModTime: info.ModTime()})
	}
	return backups, nil
}

// RestoreBackup replaces the timesheet with backup n. The current timesheet
// is backed up first, so a restore can itself be undone from .bak.1.
func RestoreBackup(storagePath string, n int) error {
	if n < 1 || n > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}

	backupPath := BackupPath(storagePath, n)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d does not exist", n)
		}
		return err
	}

	// Hold the chosen backup aside: rotating may move or drop it
	tmp, err := os.CreateTemp("", "voicesheet-restore-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := copyFile(backupPath, tmpPath); err != nil {
		return err
	}
	if err := CreateBackup(storagePath); err != nil {
		return err
	}
	return copyFile(tmpPath, storagePath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
