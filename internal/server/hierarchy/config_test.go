package hierarchy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000, cfg.BatchDeleteLimit)
	assert.Equal(t, DefaultRenameWorkers, cfg.RenameWorkers)
	assert.Equal(t, int32(DefaultListPageSize), cfg.ListPageSize)
	assert.Equal(t, time.Hour, cfg.UploadTTL)
	assert.Equal(t, 30*time.Minute, cfg.DownloadTTL)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "root without trailing slash", cfg: Config{RootPrefix: "files"}},
		{name: "root with relative segment", cfg: Config{RootPrefix: "../files/"}},
		{name: "batch above store limit", cfg: Config{BatchDeleteLimit: 1001}},
		{name: "negative batch", cfg: Config{BatchDeleteLimit: -1}},
		{name: "too many workers", cfg: Config{RenameWorkers: 65}},
		{name: "page size above store limit", cfg: Config{ListPageSize: 5000}},
		{name: "upload ttl too long", cfg: Config{UploadTTL: 8 * 24 * time.Hour}},
		{name: "download ttl too short", cfg: Config{DownloadTTL: time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
