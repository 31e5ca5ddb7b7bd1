// Package app holds application-wide identifiers and the per-user data directory.
package app

import (
	"path/filepath"

	"github.com/xolan/voicesheet/internal/osutil"
)

// Name is the application name, used for the config directory and env prefix
const Name = "voicesheet"

// Dir returns <UserConfigDir>/voicesheet, creating it if it doesn't exist.
func Dir() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, Name)
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return appDir, nil
}

// ScratchPath returns the default location for the temporary capture file
func ScratchPath() string {
	return filepath.Join(osutil.Provider.TempDir(), Name+"_capture.wav")
}
