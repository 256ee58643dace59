package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDirectory creates a directory and all necessary parent directories
func EnsureDirectory(path string) error {
	if path == "." || path == "" {
		return nil // Current directory always exists
	}

	return os.MkdirAll(path, 0755)
}

// CreateTempFileInDir creates a hidden temporary file in a specific directory
func CreateTempFileInDir(dir, prefix string) (*os.File, error) {
	if err := EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create temp directory '%s': %w", dir, err)
	}

	return os.CreateTemp(dir, "."+prefix+"-*")
}

// SafeRemove removes a file, ignoring "not exist" errors
func SafeRemove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether anything exists at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetFileExtension returns the lowercase file extension without the dot
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// IsImageFile checks if a file path represents an image a camera produces
func IsImageFile(path string) bool {
	switch GetFileExtension(path) {
	case "jpg", "jpeg", "png", "tif", "tiff", "pgm", "ppm", "pnm",
		"cr2", "cr3", "nef", "arw", "raf", "orf", "rw2", "dng":
		return true
	default:
		return false
	}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path provided")
	}
	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	if len(path) == 1 {
		return homeDir, nil
	}
	return filepath.Join(homeDir, path[1:]), nil
}
