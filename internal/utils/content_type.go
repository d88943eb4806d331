package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// DirectoryContentType marks zero-byte folder objects
const DirectoryContentType = "application/x-directory"

// DetectContentType guesses the content type of an object from its name
func DetectContentType(name string) string {
	if isTextLike(name) {
		return "text/plain; charset=utf-8"
	} else if mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

func isTextLike(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") ||
		strings.HasSuffix(lower, ".yml") ||
		strings.HasSuffix(lower, ".toml") ||
		strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".log")
}
