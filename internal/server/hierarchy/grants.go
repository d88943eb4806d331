package hierarchy

import (
	"context"
	"net/http"
	"time"

	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/metrics"
	"github.com/ruangobat/storagehub/internal/utils"
)

const inlineDisposition = "inline"

// IssueUploadGrant presigns a PUT for path. The uploaded object is tagged with
// actor as its creator. Nothing is reserved: concurrent grants for one key are
// allowed and the last completed upload wins. A zero ttl uses the configured default.
func (s *Service) IssueUploadGrant(ctx context.Context, path, contentType, actor string, ttl time.Duration) (*AccessGrant, error) {
	const op = "issue_upload_grant"

	key, err := s.fileKey(op, path)
	if err != nil {
		return nil, err
	}
	ttl, err = s.resolveTTL(op, ttl, s.config.UploadTTL)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = utils.DetectContentType(path)
	}

	var metadata map[string]string
	if actor != "" {
		metadata = map[string]string{MetaCreatedBy: actor}
	}

	issuedAt := s.now()
	req, err := s.backend.PresignPutObject(ctx, &blob.PresignPutParams{
		Key:         key,
		ContentType: contentType,
		Metadata:    metadata,
		ACL:         s.config.ObjectACL,
		Expires:     ttl,
	})
	metrics.RecordGrant(http.MethodPut, err == nil)
	if err != nil {
		return nil, grantIssuance(op, key, err)
	}

	return newAccessGrant(key, req, issuedAt.Add(ttl)), nil
}

// IssueDownloadGrant presigns a GET for path with inline disposition.
// The object must exist at issue time; a zero ttl uses the configured default.
func (s *Service) IssueDownloadGrant(ctx context.Context, path string, ttl time.Duration) (*AccessGrant, error) {
	const op = "issue_download_grant"

	key, err := s.fileKey(op, path)
	if err != nil {
		return nil, err
	}
	ttl, err = s.resolveTTL(op, ttl, s.config.DownloadTTL)
	if err != nil {
		return nil, err
	}

	if _, err := s.backend.HeadObject(ctx, key); err != nil {
		metrics.RecordGrant(http.MethodGet, false)
		if blob.IsNotFound(err) {
			return nil, notFound(op, key, err)
		}
		return nil, grantIssuance(op, key, err)
	}

	issuedAt := s.now()
	req, err := s.backend.PresignGetObject(ctx, &blob.PresignGetParams{
		Key:                key,
		ContentDisposition: inlineDisposition,
		Expires:            ttl,
	})
	metrics.RecordGrant(http.MethodGet, err == nil)
	if err != nil {
		return nil, grantIssuance(op, key, err)
	}

	return newAccessGrant(key, req, issuedAt.Add(ttl)), nil
}

// fileKey resolves path to a store key that can hold file content
func (s *Service) fileKey(op, path string) (string, error) {
	key, err := s.codec.ToStoreKey(path)
	if err != nil {
		return "", err
	}
	if s.codec.IsRoot(key) || IsFolderKey(key) {
		return "", invalidPath(op, path, "grants are issued for files, not folders")
	}
	return key, nil
}

func (s *Service) resolveTTL(op string, ttl, fallback time.Duration) (time.Duration, error) {
	if ttl == 0 {
		return fallback, nil
	}
	if err := validateTTL(ttl); err != nil {
		return 0, invalidRequest(op, err.Error())
	}
	return ttl, nil
}

func newAccessGrant(key string, req *blob.PresignedRequest, expiresAt time.Time) *AccessGrant {
	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		// host is implied by the URL
		if len(values) == 0 || http.CanonicalHeaderKey(name) == "Host" {
			continue
		}
		headers[http.CanonicalHeaderKey(name)] = values[0]
	}
	return &AccessGrant{
		Key:       key,
		Method:    req.Method,
		URL:       req.URL,
		ExpiresAt: expiresAt,
		Headers:   headers,
	}
}
