package blob

import (
	"strings"
	"unicode/utf8"
)

// MaxKeyLength is the S3 limit on key size in bytes
const MaxKeyLength = 1024

// ValidateKey checks a key for S3 and local file system compatibility.
// A single trailing "/" is allowed so folder markers validate.
func ValidateKey(key string) bool {
	if len(key) == 0 || len(key) > MaxKeyLength {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	if !utf8.ValidString(key) {
		return false
	}

	segments := strings.Split(strings.TrimSuffix(key, "/"), "/")
	for _, seg := range segments {
		switch seg {
		case "", ".", "..":
			return false
		}
	}
	return true
}
