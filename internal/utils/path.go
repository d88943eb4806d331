package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dirPermission = 0o755

// ResolvePath expands a leading ~ and returns a cleaned absolute path
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Abs(path)
}

// EnsureParent creates the directory that will hold path
func EnsureParent(path string) error {
	return EnsureDir(filepath.Dir(path))
}

func EnsureDir(path string) error {
	if err := os.MkdirAll(path, dirPermission); err != nil {
		return fmt.Errorf("create directory %q: %w", path, err)
	}
	return nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
