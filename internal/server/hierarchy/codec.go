package hierarchy

import (
	"strings"
	"unicode/utf8"

	"github.com/ruangobat/storagehub/internal/server/blob"
)

// Separator delimits path segments and terminates folder keys
const Separator = "/"

// Codec maps hierarchical paths to store keys under a fixed root prefix.
// A Path is relative to the root, "" is the root itself, and a trailing
// separator marks a folder reference.
type Codec struct {
	RootPrefix string
}

func NewCodec(rootPrefix string) *Codec {
	return &Codec{RootPrefix: rootPrefix}
}

// ToStoreKey validates path and prefixes it with the root. Paths are never
// rewritten, so ToPath(ToStoreKey(p)) == p for every accepted p.
func (c *Codec) ToStoreKey(path string) (string, error) {
	const op = "to_store_key"

	if path == "" {
		return c.RootPrefix, nil
	}
	if strings.HasPrefix(path, Separator) {
		return "", invalidPath(op, path, "absolute paths are not allowed")
	}
	if strings.Contains(path, "\\") {
		return "", invalidPath(op, path, "backslashes are not allowed")
	}
	if !utf8.ValidString(path) {
		return "", invalidPath(op, path, "path is not valid utf-8")
	}

	for _, seg := range strings.Split(strings.TrimSuffix(path, Separator), Separator) {
		switch seg {
		case "":
			return "", invalidPath(op, path, "empty path segment")
		case ".", "..":
			return "", invalidPath(op, path, "relative segments are not allowed")
		}
	}

	key := c.RootPrefix + path
	if len(key) > blob.MaxKeyLength {
		return "", invalidPath(op, path, "key exceeds 1024 bytes")
	}
	return key, nil
}

// ToFolderKey gives key exactly one trailing separator. The root stays as the root prefix.
func (c *Codec) ToFolderKey(key string) string {
	if key == c.RootPrefix || IsFolderKey(key) {
		return key
	}
	return key + Separator
}

// ToPath strips the root prefix from key
func (c *Codec) ToPath(key string) string {
	return DisplayName(key, c.RootPrefix)
}

// IsRoot reports whether key addresses the root folder
func (c *Codec) IsRoot(key string) bool {
	return key == c.RootPrefix
}

// DisplayName strips prefix from key if present, else returns key unchanged
func DisplayName(key, prefix string) string {
	if rest, ok := strings.CutPrefix(key, prefix); ok {
		return rest
	}
	return key
}

// IsFolderKey reports whether key ends with the separator
func IsFolderKey(key string) bool {
	return strings.HasSuffix(key, Separator)
}

// JoinPath appends name to the parent folder path
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	if !strings.HasSuffix(parent, Separator) {
		parent += Separator
	}
	return parent + name
}
