package blob

import (
	"context"
	"io"
	"net/http"
	"time"
)

// MaxDeleteObjects is the largest batch a single DeleteObjects call accepts on S3.
const MaxDeleteObjects = 1000

// IBlobBackend defines the primitive operations of a flat object store.
// The store has no notion of directories; everything above this interface
// (folders, recursive operations) is emulated by the caller.
// Implementations must be safe for concurrent use.
type IBlobBackend interface {
	// ListObjects returns a single page of a prefix listing. When Delimiter is set,
	// keys sharing a prefix up to the next delimiter are rolled up into CommonPrefixes.
	ListObjects(ctx context.Context, params *ListObjectsParams) (*ListObjectsPage, error)

	// HeadObject returns metadata of a single object, or an error satisfying IsNotFound
	HeadObject(ctx context.Context, key string) (*ObjectInfo, error)

	// PutObject uploads a single object
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error)

	// CopyObject performs a server-side copy, no data is re-uploaded
	CopyObject(ctx context.Context, params *CopyObjectParams) (*CopyObjectResponse, error)

	// DeleteObject removes a single object. Deleting a missing key is not an error on S3.
	DeleteObject(ctx context.Context, key string) error

	// DeleteObjects removes up to MaxDeleteObjects keys in one request and reports per-key results
	DeleteObjects(ctx context.Context, keys []string) (*DeleteObjectsResponse, error)

	// PresignPutObject generates a presigned upload request
	PresignPutObject(ctx context.Context, params *PresignPutParams) (*PresignedRequest, error)

	// PresignGetObject generates a presigned download request
	PresignGetObject(ctx context.Context, params *PresignGetParams) (*PresignedRequest, error)
}

// ===================================================================================================

type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	ContentType  string
	Metadata     map[string]string
	LastModified time.Time
}

// ===================================================================================================

type ListObjectsParams struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int32
}

type ListObjectsPage struct {
	Objects               []*ObjectInfo
	CommonPrefixes        []string
	NextContinuationToken string
	IsTruncated           bool
}

// ===================================================================================================

type PutObjectParams struct {
	Key         string
	Size        int64
	Body        io.Reader
	ContentType string
	Metadata    map[string]string
	ACL         string
}

type PutObjectResponse struct {
	Key          string
	Version      string
	ETag         string
	Size         int64
	LastModified time.Time
}

// ===================================================================================================

type CopyObjectParams struct {
	SourceKey      string
	DestinationKey string
}

type CopyObjectResponse struct {
	ETag         string
	LastModified time.Time
}

// ===================================================================================================

type DeleteObjectsResponse struct {
	Deleted []string
	Errors  []*DeleteError
}

type DeleteError struct {
	Key     string
	Code    string
	Message string
}

// ===================================================================================================

type PresignPutParams struct {
	Key         string
	ContentType string
	Metadata    map[string]string
	ACL         string
	Expires     time.Duration
}

type PresignGetParams struct {
	Key                string
	ContentDisposition string
	Expires            time.Duration
}

// PresignedRequest is a credential-embedded request for one operation on one key.
// SignedHeader lists the headers the caller must send verbatim for the signature to hold.
type PresignedRequest struct {
	URL          string
	Method       string
	SignedHeader http.Header
}
