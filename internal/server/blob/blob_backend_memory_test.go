package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, m *MemoryBackend, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := m.PutObject(context.Background(), &PutObjectParams{
			Key:  key,
			Body: strings.NewReader(key),
			Size: int64(len(key)),
		})
		require.NoError(t, err)
	}
}

func TestMemoryBackend_ListWithDelimiter(t *testing.T) {
	m := NewMemoryBackend("test")
	seed(t, m,
		"photos/",
		"photos/2024/a.jpg",
		"photos/2024/b.jpg",
		"photos/2025/",
		"photos/cover.png",
		"photos-old.zip",
		"readme.md",
	)

	page, err := m.ListObjects(context.Background(), &ListObjectsParams{Prefix: "photos/", Delimiter: "/"})
	require.NoError(t, err)

	assert.Equal(t, []string{"photos/2024/", "photos/2025/"}, page.CommonPrefixes)
	require.Len(t, page.Objects, 2)
	assert.Equal(t, "photos/", page.Objects[0].Key)
	assert.Equal(t, "photos/cover.png", page.Objects[1].Key)
	assert.False(t, page.IsTruncated)
	assert.Empty(t, page.NextContinuationToken)

	root, err := m.ListObjects(context.Background(), &ListObjectsParams{Delimiter: "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"photos/"}, root.CommonPrefixes)
	require.Len(t, root.Objects, 2)
	assert.Equal(t, "photos-old.zip", root.Objects[0].Key)
	assert.Equal(t, "readme.md", root.Objects[1].Key)
}

func TestMemoryBackend_ListPagination(t *testing.T) {
	m := NewMemoryBackend("test")
	for i := 0; i < 7; i++ {
		seed(t, m, fmt.Sprintf("docs/f%02d.txt", i))
	}
	seed(t, m, "docs/a/1.txt", "docs/a/2.txt", "docs/b/1.txt")

	var (
		token    string
		objects  []string
		prefixes []string
		pages    int
	)
	for {
		page, err := m.ListObjects(context.Background(), &ListObjectsParams{
			Prefix:            "docs/",
			Delimiter:         "/",
			ContinuationToken: token,
			MaxKeys:           2,
		})
		require.NoError(t, err)
		pages++
		for _, obj := range page.Objects {
			objects = append(objects, obj.Key)
		}
		prefixes = append(prefixes, page.CommonPrefixes...)
		if !page.IsTruncated {
			break
		}
		require.NotEmpty(t, page.NextContinuationToken)
		token = page.NextContinuationToken
	}

	assert.Equal(t, 5, pages)
	assert.Equal(t, []string{"docs/a/", "docs/b/"}, prefixes)
	assert.Len(t, objects, 7)
	assert.Equal(t, "docs/f00.txt", objects[0])
	assert.Equal(t, "docs/f06.txt", objects[6])
}

func TestMemoryBackend_ListRecursive(t *testing.T) {
	m := NewMemoryBackend("test")
	seed(t, m, "a/", "a/x", "a/b/", "a/b/y", "ab")

	page, err := m.ListObjects(context.Background(), &ListObjectsParams{Prefix: "a/"})
	require.NoError(t, err)

	keys := make([]string, 0, len(page.Objects))
	for _, obj := range page.Objects {
		keys = append(keys, obj.Key)
	}
	assert.Equal(t, []string{"a/", "a/b/", "a/b/y", "a/x"}, keys)
	assert.Empty(t, page.CommonPrefixes)
}

func TestMemoryBackend_InvalidToken(t *testing.T) {
	m := NewMemoryBackend("test")
	_, err := m.ListObjects(context.Background(), &ListObjectsParams{ContinuationToken: "!!not-base64"})
	assert.Error(t, err)
}

func TestMemoryBackend_CopyAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend("test")
	_, err := m.PutObject(ctx, &PutObjectParams{
		Key:         "src.txt",
		Body:        strings.NewReader("hello"),
		Size:        5,
		ContentType: "text/plain",
		Metadata:    map[string]string{"x-created-by": "alice"},
	})
	require.NoError(t, err)

	_, err = m.CopyObject(ctx, &CopyObjectParams{SourceKey: "src.txt", DestinationKey: "dst/copy.txt"})
	require.NoError(t, err)

	info, err := m.HeadObject(ctx, "dst/copy.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, "alice", info.Metadata["x-created-by"])

	_, err = m.CopyObject(ctx, &CopyObjectParams{SourceKey: "missing.txt", DestinationKey: "x.txt"})
	assert.True(t, IsNotFound(err))

	require.NoError(t, m.DeleteObject(ctx, "src.txt"))
	require.NoError(t, m.DeleteObject(ctx, "src.txt"), "deleting a missing key is not an error")
	assert.False(t, m.Has("src.txt"))

	_, err = m.HeadObject(ctx, "src.txt")
	assert.True(t, IsNotFound(err))

	resp, err := m.DeleteObjects(ctx, []string{"dst/copy.txt", "never-existed"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dst/copy.txt", "never-existed"}, resp.Deleted)
	assert.Empty(t, resp.Errors)
	assert.Empty(t, m.Keys())

	tooMany := make([]string, MaxDeleteObjects+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("k%d", i)
	}
	_, err = m.DeleteObjects(ctx, tooMany)
	assert.Error(t, err)
}

func TestMemoryBackend_Presign(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend("files")

	put, err := m.PresignPutObject(ctx, &PresignPutParams{
		Key:         "docs/report.pdf",
		ContentType: "application/pdf",
		Metadata:    map[string]string{"x-created-by": "bob"},
		ACL:         "public-read",
		Expires:     time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, "PUT", put.Method)
	assert.Equal(t, "application/pdf", put.SignedHeader.Get("Content-Type"))
	assert.Equal(t, "bob", put.SignedHeader.Get("X-Amz-Meta-X-Created-By"))
	assert.Equal(t, "public-read", put.SignedHeader.Get("X-Amz-Acl"))

	u, err := url.Parse(put.URL)
	require.NoError(t, err)
	assert.Equal(t, "memory", u.Scheme)
	assert.Equal(t, "files", u.Host)
	assert.Equal(t, "/docs/report.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))

	get, err := m.PresignGetObject(ctx, &PresignGetParams{
		Key:                "docs/report.pdf",
		ContentDisposition: "inline",
		Expires:            30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, "GET", get.Method)
	u, err = url.Parse(get.URL)
	require.NoError(t, err)
	assert.Equal(t, "inline", u.Query().Get("response-content-disposition"))
	assert.Equal(t, "1800", u.Query().Get("X-Amz-Expires"))

	_, err = m.PresignPutObject(ctx, &PresignPutParams{Key: "../escape"})
	assert.ErrorIs(t, err, ErrInvalidKey)
}
