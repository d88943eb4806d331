package sdk

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ruangobat/storagehub/internal/server"
	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/handlers/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, keys ...string) (*Client, blob.IBlobBackend) {
	t.Helper()
	ctx := context.Background()

	cfg := &server.Config{
		Blob: blob.Config{Driver: blob.DriverMemory, BucketName: "sdk-test"},
		HTTP: server.HTTPConfig{RateLimit: "1000-S"},
	}
	require.NoError(t, cfg.Validate())

	svc, err := server.NewServices(ctx, cfg)
	require.NoError(t, err)

	backend := svc.Blob.Backend()
	for _, key := range keys {
		_, err := backend.PutObject(ctx, &blob.PutObjectParams{Key: key, Body: strings.NewReader(key), Size: int64(len(key))})
		require.NoError(t, err)
	}

	ts := httptest.NewServer(server.SetupRoutes(cfg, svc))
	t.Cleanup(ts.Close)

	c, err := New(&Config{BaseURL: ts.URL, Actor: "alice"})
	require.NoError(t, err)
	return c, backend
}

func TestNew(t *testing.T) {
	_, err := New(&Config{})
	assert.ErrorIs(t, err, ErrNoServerURL)

	_, err = New(&Config{BaseURL: "ftp://nope"})
	assert.Error(t, err)

	c, err := New(&Config{BaseURL: "http://localhost:8080/", AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1/storage", c.client.BaseURL)

	// a gateway mounted below a path prefix
	c, err = New(&Config{BaseURL: "https://files.example.com/hub/"})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/hub/api/v1/storage", c.client.BaseURL)
}

func TestClient_Hierarchy(t *testing.T) {
	ctx := context.Background()
	c, backend := newGateway(t, "readme.md", "docs/a.txt", "docs/b.txt")

	folder, err := c.CreateFolder(ctx, "", "photos")
	require.NoError(t, err)
	assert.Equal(t, "photos/", folder.Key)
	assert.Equal(t, "alice", folder.CreatedBy)

	listing, err := c.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "docs", listing.Folders[0].Name)
	assert.Equal(t, "photos", listing.Folders[1].Name)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "readme.md", listing.Files[0].Name)

	matched, err := c.List(ctx, "docs/", "b*")
	require.NoError(t, err)
	require.Len(t, matched.Files, 1)
	assert.Equal(t, "b.txt", matched.Files[0].Name)

	renamed, err := c.Rename(ctx, "docs/", "archive/", true)
	require.NoError(t, err)
	assert.Equal(t, 2, renamed.Moved)

	deleted, err := c.Delete(ctx, "archive/", true)
	require.NoError(t, err)
	assert.Equal(t, "success", deleted.Outcome)

	objects, err := backend.ListObjects(ctx, &blob.ListObjectsParams{})
	require.NoError(t, err)
	keys := make([]string, 0, len(objects.Objects))
	for _, obj := range objects.Objects {
		keys = append(keys, obj.Key)
	}
	assert.Equal(t, []string{"photos/", "readme.md"}, keys)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()
	c, _ := newGateway(t)

	_, err := c.PresignDownload(ctx, "missing.txt", 0)
	require.Error(t, err)
	assert.True(t, IsKind(err, api.KindNotFound))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, err = c.CreateFolder(ctx, "", "a/b")
	assert.True(t, IsKind(err, api.KindInvalidName))

	resp, err := c.PresignUpload(ctx, &storage.PresignUploadRequest{
		Files: []storage.UploadFile{{Filename: "ok.txt"}, {Filename: "../bad.txt"}},
	})
	assert.True(t, IsKind(err, api.KindPartialFailure))
	require.NotNil(t, resp, "partial results carry data")
	assert.Len(t, resp.Grants, 1)
	assert.Len(t, resp.Errors, 1)
}

// fakeStore stands in for the object store behind presigned URLs
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	headers map[string]http.Header
}

func newFakeStore(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{objects: map[string][]byte{}, headers: map[string]http.Header{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			fs.objects[r.URL.Path] = body
			fs.headers[r.URL.Path] = r.Header.Clone()
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			body, ok := fs.objects[r.URL.Path]
			if !ok {
				http.Error(w, "<Error><Code>NoSuchKey</Code></Error>", http.StatusNotFound)
				return
			}
			w.Write(body)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ts.Close)
	return fs, ts
}

func TestClient_Transfer(t *testing.T) {
	ctx := context.Background()
	store, ts := newFakeStore(t)

	c, err := New(&Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644))

	put := &storage.GrantResponse{
		Key:    "docs/report.csv",
		Method: http.MethodPut,
		URL:    ts.URL + "/docs/report.csv",
		Headers: map[string]string{
			"Content-Type":            "text/csv",
			"X-Amz-Meta-X-Created-By": "alice",
		},
	}
	require.NoError(t, c.Put(ctx, put, src))

	assert.Equal(t, "a,b\n1,2\n", string(store.objects["/docs/report.csv"]))
	assert.Equal(t, "text/csv", store.headers["/docs/report.csv"].Get("Content-Type"))
	assert.Equal(t, "alice", store.headers["/docs/report.csv"].Get("X-Amz-Meta-X-Created-By"))

	dest := filepath.Join(t.TempDir(), "out", "report.csv")
	get := &storage.GrantResponse{Key: "docs/report.csv", Method: http.MethodGet, URL: ts.URL + "/docs/report.csv"}
	require.NoError(t, c.Get(ctx, get, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	missingDir := t.TempDir()
	missing := &storage.GrantResponse{Key: "nope", Method: http.MethodGet, URL: ts.URL + "/nope"}
	err = c.Get(ctx, missing, filepath.Join(missingDir, "nope"))
	var terr *TransferError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusNotFound, terr.Status)
	assert.Contains(t, terr.Body, "NoSuchKey")
	assert.NoFileExists(t, filepath.Join(missingDir, "nope"))
	assert.NoFileExists(t, filepath.Join(missingDir, "nope.part"))
}
