package hierarchy

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// faultyBackend wraps the memory store and lets a test inject failures per key or per batch
type faultyBackend struct {
	*blob.MemoryBackend

	mu      sync.Mutex
	batches [][]string
	copies  []string
	deletes []string

	listErr     error
	hiddenKeys  map[string]bool
	copyFault   func(src, dst string) error
	afterCopy   func(src, dst string)
	deleteFault func(key string) error
	batchFault  func(i int, batch []string) (*blob.DeleteObjectsResponse, error)
	afterBatch  func(i int)
}

func newFaultyBackend() *faultyBackend {
	return &faultyBackend{
		MemoryBackend: blob.NewMemoryBackend("test-bucket"),
		hiddenKeys:    make(map[string]bool),
	}
}

func (f *faultyBackend) ListObjects(ctx context.Context, params *blob.ListObjectsParams) (*blob.ListObjectsPage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	page, err := f.MemoryBackend.ListObjects(ctx, params)
	if err != nil || len(f.hiddenKeys) == 0 {
		return page, err
	}
	visible := page.Objects[:0]
	for _, obj := range page.Objects {
		if !f.hiddenKeys[obj.Key] {
			visible = append(visible, obj)
		}
	}
	page.Objects = visible
	return page, nil
}

func (f *faultyBackend) CopyObject(ctx context.Context, params *blob.CopyObjectParams) (*blob.CopyObjectResponse, error) {
	f.mu.Lock()
	f.copies = append(f.copies, params.SourceKey)
	f.mu.Unlock()

	if f.copyFault != nil {
		if err := f.copyFault(params.SourceKey, params.DestinationKey); err != nil {
			return nil, err
		}
	}
	resp, err := f.MemoryBackend.CopyObject(ctx, params)
	if err == nil && f.afterCopy != nil {
		f.afterCopy(params.SourceKey, params.DestinationKey)
	}
	return resp, err
}

func (f *faultyBackend) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, key)
	f.mu.Unlock()

	if f.deleteFault != nil {
		if err := f.deleteFault(key); err != nil {
			return err
		}
	}
	return f.MemoryBackend.DeleteObject(ctx, key)
}

func (f *faultyBackend) DeleteObjects(ctx context.Context, keys []string) (*blob.DeleteObjectsResponse, error) {
	f.mu.Lock()
	i := len(f.batches)
	f.batches = append(f.batches, append([]string(nil), keys...))
	f.mu.Unlock()

	if f.afterBatch != nil {
		defer f.afterBatch(i)
	}

	if f.batchFault != nil {
		resp, err := f.batchFault(i, keys)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			// keys reported as errors stay in the store
			failed := make(map[string]bool, len(resp.Errors))
			for _, e := range resp.Errors {
				failed[e.Key] = true
			}
			for _, key := range keys {
				if !failed[key] {
					_ = f.MemoryBackend.DeleteObject(ctx, key)
				}
			}
			return resp, nil
		}
	}
	return f.MemoryBackend.DeleteObjects(ctx, keys)
}

func (f *faultyBackend) seed(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		body := key
		if strings.HasSuffix(key, "/") {
			body = ""
		}
		_, err := f.MemoryBackend.PutObject(context.Background(), &blob.PutObjectParams{
			Key:  key,
			Body: strings.NewReader(body),
			Size: int64(len(body)),
		})
		require.NoError(t, err)
	}
}

func newTestService(t *testing.T, mutate ...func(*Config)) (*Service, *faultyBackend) {
	t.Helper()

	cfg := &Config{}
	for _, fn := range mutate {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())

	backend := newFaultyBackend()
	return NewService(backend, cfg, WithClock(func() time.Time { return testNow })), backend
}

// ===================================================================================================

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListObjects(ctx context.Context, params *blob.ListObjectsParams) (*blob.ListObjectsPage, error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*blob.ListObjectsPage)
	return page, args.Error(1)
}

func (m *mockBackend) HeadObject(ctx context.Context, key string) (*blob.ObjectInfo, error) {
	args := m.Called(ctx, key)
	info, _ := args.Get(0).(*blob.ObjectInfo)
	return info, args.Error(1)
}

func (m *mockBackend) PutObject(ctx context.Context, params *blob.PutObjectParams) (*blob.PutObjectResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*blob.PutObjectResponse)
	return resp, args.Error(1)
}

func (m *mockBackend) CopyObject(ctx context.Context, params *blob.CopyObjectParams) (*blob.CopyObjectResponse, error) {
	args := m.Called(ctx, params)
	resp, _ := args.Get(0).(*blob.CopyObjectResponse)
	return resp, args.Error(1)
}

func (m *mockBackend) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockBackend) DeleteObjects(ctx context.Context, keys []string) (*blob.DeleteObjectsResponse, error) {
	args := m.Called(ctx, keys)
	resp, _ := args.Get(0).(*blob.DeleteObjectsResponse)
	return resp, args.Error(1)
}

func (m *mockBackend) PresignPutObject(ctx context.Context, params *blob.PresignPutParams) (*blob.PresignedRequest, error) {
	args := m.Called(ctx, params)
	req, _ := args.Get(0).(*blob.PresignedRequest)
	return req, args.Error(1)
}

func (m *mockBackend) PresignGetObject(ctx context.Context, params *blob.PresignGetParams) (*blob.PresignedRequest, error) {
	args := m.Called(ctx, params)
	req, _ := args.Get(0).(*blob.PresignedRequest)
	return req, args.Error(1)
}

func newMockService(t *testing.T) (*Service, *mockBackend) {
	t.Helper()
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	backend := &mockBackend{}
	t.Cleanup(func() { backend.AssertExpectations(t) })
	return NewService(backend, cfg, WithClock(func() time.Time { return testNow })), backend
}
