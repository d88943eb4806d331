package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "empty path", input: "", wantError: true},
		{name: "relative path", input: "./logs", wantError: false},
		{name: "absolute path", input: "/tmp/storagehub", wantError: false},
		{name: "home path", input: "~/.storagehub/logs", wantError: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(result))
			assert.NotContains(t, result, "~")
		})
	}
}

func TestEnsureParent(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "nested", "server.log")

	require.NoError(t, EnsureParent(logFile))
	info, err := os.Stat(filepath.Dir(logFile))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, FileExists(logFile))

	require.NoError(t, os.WriteFile(logFile, []byte("x"), 0o644))
	assert.True(t, FileExists(logFile))

	// idempotent
	require.NoError(t, EnsureParent(logFile))
}
