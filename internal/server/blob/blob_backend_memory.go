package blob

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultMaxKeys = 1000

type memoryObject struct {
	data        []byte
	etag        string
	contentType string
	metadata    map[string]string
	acl         string
	modified    time.Time
}

// MemoryBackend is an in-process flat object store with S3 listing semantics.
// It backs the "memory" driver for local development and the test suites.
type MemoryBackend struct {
	bucket  string
	mu      sync.RWMutex
	objects map[string]*memoryObject
	now     func() time.Time
}

func NewMemoryBackend(bucket string) *MemoryBackend {
	return &MemoryBackend{
		bucket:  bucket,
		objects: make(map[string]*memoryObject),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryBackend) CheckBucket(ctx context.Context) error {
	return ctx.Err()
}

// ===================================================================================================

func (m *MemoryBackend) ListObjects(ctx context.Context, params *ListObjectsParams) (*ListObjectsPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxKeys := int(params.MaxKeys)
	if maxKeys <= 0 || maxKeys > defaultMaxKeys {
		maxKeys = defaultMaxKeys
	}

	// continuation token is the base64 of the last key (or common prefix) returned
	startKey := ""
	if params.ContinuationToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(params.ContinuationToken)
		if err != nil {
			return nil, fmt.Errorf("list objects: invalid continuation token")
		}
		startKey = string(decoded)
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if strings.HasPrefix(key, params.Prefix) && key > startKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	page := &ListObjectsPage{
		Objects:        make([]*ObjectInfo, 0),
		CommonPrefixes: make([]string, 0),
	}
	count := 0
	lastKey := ""
	lastIsPrefix := false
	for _, key := range keys {
		if params.Delimiter != "" {
			rest := strings.TrimPrefix(key, params.Prefix)
			if idx := strings.Index(rest, params.Delimiter); idx >= 0 {
				cp := params.Prefix + rest[:idx+len(params.Delimiter)]
				// keys rolled into the previous prefix are skipped
				if cp == lastKey {
					continue
				}
				if count >= maxKeys {
					page.IsTruncated = true
					break
				}
				page.CommonPrefixes = append(page.CommonPrefixes, cp)
				count++
				lastKey = cp
				lastIsPrefix = true
				continue
			}
		}

		if count >= maxKeys {
			page.IsTruncated = true
			break
		}
		page.Objects = append(page.Objects, m.info(key, m.objects[key]))
		count++
		lastKey = key
		lastIsPrefix = false
	}
	m.mu.RUnlock()

	if page.IsTruncated {
		resume := lastKey
		if lastIsPrefix {
			// every key under a prefix sorts before prefix+0xff, resuming there skips the group
			resume += "\xff"
		}
		page.NextContinuationToken = base64.StdEncoding.EncodeToString([]byte(resume))
	}
	return page, nil
}

func (m *MemoryBackend) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("head object %q: %w", key, ErrNotFound)
	}
	return m.info(key, obj), nil
}

// ===================================================================================================

func (m *MemoryBackend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	if params.Body != nil {
		var err error
		data, err = io.ReadAll(params.Body)
		if err != nil {
			return nil, fmt.Errorf("put object %q: %w", params.Key, err)
		}
	}

	sum := md5.Sum(data)
	obj := &memoryObject{
		data:        data,
		etag:        hex.EncodeToString(sum[:]),
		contentType: params.ContentType,
		metadata:    maps.Clone(params.Metadata),
		acl:         params.ACL,
		modified:    m.now(),
	}

	m.mu.Lock()
	m.objects[params.Key] = obj
	m.mu.Unlock()

	return &PutObjectResponse{
		Key:          params.Key,
		ETag:         obj.etag,
		Size:         int64(len(data)),
		LastModified: obj.modified,
	}, nil
}

func (m *MemoryBackend) CopyObject(ctx context.Context, params *CopyObjectParams) (*CopyObjectResponse, error) {
	if !ValidateKey(params.SourceKey) {
		return nil, fmt.Errorf("invalid source key: %s", params.SourceKey)
	}
	if !ValidateKey(params.DestinationKey) {
		return nil, fmt.Errorf("invalid destination key: %s", params.DestinationKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.objects[params.SourceKey]
	if !ok {
		return nil, fmt.Errorf("copy %q -> %q: %w", params.SourceKey, params.DestinationKey, ErrNotFound)
	}

	dst := &memoryObject{
		data:        bytes.Clone(src.data),
		etag:        src.etag,
		contentType: src.contentType,
		metadata:    maps.Clone(src.metadata),
		acl:         src.acl,
		modified:    m.now(),
	}
	m.objects[params.DestinationKey] = dst

	return &CopyObjectResponse{ETag: dst.etag, LastModified: dst.modified}, nil
}

// ===================================================================================================

func (m *MemoryBackend) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) DeleteObjects(ctx context.Context, keys []string) (*DeleteObjectsResponse, error) {
	if len(keys) > MaxDeleteObjects {
		return nil, fmt.Errorf("delete objects: batch of %d exceeds limit %d", len(keys), MaxDeleteObjects)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp := &DeleteObjectsResponse{
		Deleted: make([]string, 0, len(keys)),
		Errors:  make([]*DeleteError, 0),
	}
	for _, key := range keys {
		delete(m.objects, key)
		resp.Deleted = append(resp.Deleted, key)
	}
	return resp, nil
}

// ===================================================================================================

func (m *MemoryBackend) PresignPutObject(ctx context.Context, params *PresignPutParams) (*PresignedRequest, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := http.Header{}
	if params.ContentType != "" {
		header.Set("Content-Type", params.ContentType)
	}
	for k, v := range params.Metadata {
		header.Set("X-Amz-Meta-"+k, v)
	}
	if params.ACL != "" {
		header.Set("X-Amz-Acl", params.ACL)
	}

	return &PresignedRequest{
		URL:          m.presignURL(params.Key, http.MethodPut, params.Expires, nil),
		Method:       http.MethodPut,
		SignedHeader: header,
	}, nil
}

func (m *MemoryBackend) PresignGetObject(ctx context.Context, params *PresignGetParams) (*PresignedRequest, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extra := url.Values{}
	if params.ContentDisposition != "" {
		extra.Set("response-content-disposition", params.ContentDisposition)
	}

	return &PresignedRequest{
		URL:          m.presignURL(params.Key, http.MethodGet, params.Expires, extra),
		Method:       http.MethodGet,
		SignedHeader: http.Header{},
	}, nil
}

// ===================================================================================================

// Keys returns every stored key in lexicographic order
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is stored
func (m *MemoryBackend) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Data returns the stored bytes of key
func (m *MemoryBackend) Data(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

func (m *MemoryBackend) info(key string, obj *memoryObject) *ObjectInfo {
	return &ObjectInfo{
		Key:          key,
		ETag:         obj.etag,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		Metadata:     maps.Clone(obj.metadata),
		LastModified: obj.modified,
	}
}

func (m *MemoryBackend) presignURL(key, method string, expires time.Duration, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("X-Amz-Method", method)
	q.Set("X-Amz-Date", m.now().Format("20060102T150405Z"))
	q.Set("X-Amz-Expires", fmt.Sprintf("%d", int64(expires.Seconds())))

	u := url.URL{
		Scheme:   "memory",
		Host:     m.bucket,
		Path:     "/" + key,
		RawQuery: q.Encode(),
	}
	return u.String()
}

var _ IBlobBackend = (*MemoryBackend)(nil)
