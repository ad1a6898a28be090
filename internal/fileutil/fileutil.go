// Package fileutil provides file and path helpers for text2speech.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultDirPermissions = 0o750
	voicesDirName         = "voices"
)

// Audio file extensions accepted as speaker references.
const (
	extAAC  = ".aac"
	extFLAC = ".flac"
	extM4A  = ".m4a"
	extMP3  = ".mp3"
	extOGG  = ".ogg"
	extWAV  = ".wav"
)

// EnsureDir ensures a directory exists at the given path, creating it and
// any missing parents if needed.
func EnsureDir(path string) error {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, defaultDirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, mkdirErr)
		}
	}

	return nil
}

// InstallVoicesDir returns the voices directory shipped next to the
// installed binary. The bundled default reference voice lives there.
func InstallVoicesDir() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	return filepath.Join(filepath.Dir(exePath), voicesDirName), nil
}

// IsAudioFile checks if a filename has a common audio file extension.
func IsAudioFile(filename string) bool {
	switch filepath.Ext(filename) {
	case extWAV, extMP3, extFLAC, extOGG, extM4A, extAAC:
		return true
	default:
		return false
	}
}
