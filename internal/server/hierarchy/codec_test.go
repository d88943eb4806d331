package hierarchy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_ToStoreKey(t *testing.T) {
	codec := NewCodec("files/")

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "root", path: "", want: "files/"},
		{name: "file", path: "a/b/c.png", want: "files/a/b/c.png"},
		{name: "folder", path: "a/b/", want: "files/a/b/"},
		{name: "dots inside a name", path: "a/some..txt", want: "files/a/some..txt"},
		{name: "unicode", path: "fotos/año/✅.jpg", want: "files/fotos/año/✅.jpg"},
		{name: "absolute", path: "/etc/passwd", wantErr: true},
		{name: "parent segment", path: "a/../../b", wantErr: true},
		{name: "trailing parent", path: "a/..", wantErr: true},
		{name: "current segment", path: "./a", wantErr: true},
		{name: "empty segment", path: "a//b", wantErr: true},
		{name: "double trailing slash", path: "a//", wantErr: true},
		{name: "lone slash", path: "/", wantErr: true},
		{name: "backslash", path: "a\\b", wantErr: true},
		{name: "invalid utf8", path: "a/\xff", wantErr: true},
		{name: "too long", path: strings.Repeat("x", 1020), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.ToStoreKey(tt.path)
			if tt.wantErr {
				assert.True(t, IsKind(err, KindInvalidPath), "want InvalidPath, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	paths := []string{"", "a", "a/", "a/b/c.png", "deep/er/than/that/", "x y/z.txt", "ünï/cødé"}

	for _, root := range []string{"", "files/", "tenant/a/"} {
		codec := NewCodec(root)
		for _, p := range paths {
			key, err := codec.ToStoreKey(p)
			require.NoError(t, err, p)
			assert.Equal(t, p, codec.ToPath(key), "root=%q path=%q", root, p)
		}
	}
}

func TestCodec_ToFolderKey(t *testing.T) {
	codec := NewCodec("files/")

	assert.Equal(t, "files/", codec.ToFolderKey("files/"))
	assert.Equal(t, "files/a/", codec.ToFolderKey("files/a"))
	assert.Equal(t, "files/a/", codec.ToFolderKey("files/a/"))
	assert.Equal(t, codec.ToFolderKey("files/a/"), codec.ToFolderKey(codec.ToFolderKey("files/a")))

	bare := NewCodec("")
	assert.Equal(t, "", bare.ToFolderKey(""))
	assert.Equal(t, "a/", bare.ToFolderKey("a"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "c.png", DisplayName("a/b/c.png", "a/b/"))
	assert.Equal(t, "sub/", DisplayName("a/b/sub/", "a/b/"))
	assert.Equal(t, "x/c.png", DisplayName("x/c.png", "a/b/"), "unchanged when the prefix is absent")
	assert.Equal(t, "", DisplayName("a/b/", "a/b/"))
}

func TestIsFolderKeyAndJoinPath(t *testing.T) {
	assert.True(t, IsFolderKey("a/"))
	assert.False(t, IsFolderKey("a"))
	assert.False(t, IsFolderKey(""))

	assert.Equal(t, "name", JoinPath("", "name"))
	assert.Equal(t, "a/b/name", JoinPath("a/b", "name"))
	assert.Equal(t, "a/b/name", JoinPath("a/b/", "name"))
}
