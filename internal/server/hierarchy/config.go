package hierarchy

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruangobat/storagehub/internal/server/blob"
)

const (
	DefaultRenameWorkers = 8
	DefaultListPageSize  = 1000
	DefaultUploadTTL     = time.Hour
	DefaultDownloadTTL   = 30 * time.Minute

	MinGrantTTL = time.Second
	MaxGrantTTL = 7 * 24 * time.Hour

	maxRenameWorkers = 64
)

type Config struct {
	// RootPrefix is prepended to every path. Empty, or a valid key ending in "/".
	RootPrefix string `mapstructure:"root_prefix"`

	// BatchDeleteLimit caps keys per DeleteObjects request
	BatchDeleteLimit int `mapstructure:"batch_delete_limit"`

	// RenameWorkers bounds the keys migrated concurrently by a folder rename
	RenameWorkers int `mapstructure:"rename_workers"`

	ListPageSize int32 `mapstructure:"list_page_size"`

	// ObjectACL is an optional canned ACL applied to folder markers and uploads, e.g. "public-read"
	ObjectACL string `mapstructure:"object_acl"`

	UploadTTL   time.Duration `mapstructure:"upload_ttl"`
	DownloadTTL time.Duration `mapstructure:"download_ttl"`
}

func (c *Config) Validate() error {
	if c.BatchDeleteLimit == 0 {
		c.BatchDeleteLimit = blob.MaxDeleteObjects
	}
	if c.RenameWorkers == 0 {
		c.RenameWorkers = DefaultRenameWorkers
	}
	if c.ListPageSize == 0 {
		c.ListPageSize = DefaultListPageSize
	}
	if c.UploadTTL == 0 {
		c.UploadTTL = DefaultUploadTTL
	}
	if c.DownloadTTL == 0 {
		c.DownloadTTL = DefaultDownloadTTL
	}

	if c.RootPrefix != "" {
		if !strings.HasSuffix(c.RootPrefix, Separator) || !blob.ValidateKey(c.RootPrefix) {
			return fmt.Errorf("root_prefix %q must be a valid key ending in %q", c.RootPrefix, Separator)
		}
	}
	if c.BatchDeleteLimit < 1 || c.BatchDeleteLimit > blob.MaxDeleteObjects {
		return fmt.Errorf("batch_delete_limit must be between 1 and %d", blob.MaxDeleteObjects)
	}
	if c.RenameWorkers < 1 || c.RenameWorkers > maxRenameWorkers {
		return fmt.Errorf("rename_workers must be between 1 and %d", maxRenameWorkers)
	}
	if c.ListPageSize < 1 || c.ListPageSize > DefaultListPageSize {
		return fmt.Errorf("list_page_size must be between 1 and %d", DefaultListPageSize)
	}
	if err := validateTTL(c.UploadTTL); err != nil {
		return fmt.Errorf("upload_ttl: %w", err)
	}
	if err := validateTTL(c.DownloadTTL); err != nil {
		return fmt.Errorf("download_ttl: %w", err)
	}
	return nil
}

func validateTTL(ttl time.Duration) error {
	if ttl < MinGrantTTL || ttl > MaxGrantTTL {
		return fmt.Errorf("ttl %s outside [%s, %s]", ttl, MinGrantTTL, MaxGrantTTL)
	}
	return nil
}
