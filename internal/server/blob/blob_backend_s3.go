package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ruangobat/storagehub/internal/server/metrics"
)

type S3Backend struct {
	s3Client    *s3.Client
	s3Presigner *s3.PresignClient
	config      *Config
}

func NewS3Backend(s3Client *s3.Client, config *Config) *S3Backend {
	s3Presigner := s3.NewPresignClient(s3Client)
	return &S3Backend{
		s3Client:    s3Client,
		s3Presigner: s3Presigner,
		config:      config,
	}
}

func NewS3BackendWithConfig(ctx context.Context, cfg *Config) (*S3Backend, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          200,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	awsClient := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.UseAccelerate {
			o.UseAccelerate = true
		}
	})

	return NewS3Backend(awsClient, cfg), nil
}

// CheckBucket verifies the configured bucket is reachable with the configured credentials
func (s *S3Backend) CheckBucket(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := s.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: &s.config.BucketName,
	})
	metrics.RecordStoreOperation("head_bucket", time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s.config.BucketName, err)
	}
	return nil
}

// ===================================================================================================

func (s *S3Backend) ListObjects(ctx context.Context, params *ListObjectsParams) (*ListObjectsPage, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket: &s.config.BucketName,
		Prefix: aws.String(params.Prefix),
	}
	if params.Delimiter != "" {
		input.Delimiter = aws.String(params.Delimiter)
	}
	if params.ContinuationToken != "" {
		input.ContinuationToken = aws.String(params.ContinuationToken)
	}
	if params.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(params.MaxKeys)
	}

	start := time.Now()
	resp, err := s.s3Client.ListObjectsV2(ctx, input)
	metrics.RecordStoreOperation("list_objects", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("list objects %q: %w", params.Prefix, err)
	}

	page := &ListObjectsPage{
		Objects:               make([]*ObjectInfo, 0, len(resp.Contents)),
		CommonPrefixes:        make([]string, 0, len(resp.CommonPrefixes)),
		NextContinuationToken: aws.ToString(resp.NextContinuationToken),
		IsTruncated:           aws.ToBool(resp.IsTruncated),
	}
	for _, obj := range resp.Contents {
		page.Objects = append(page.Objects, &ObjectInfo{
			Key:          aws.ToString(obj.Key),
			ETag:         trimETag(obj.ETag),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	for _, cp := range resp.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}

	return page, nil
}

func (s *S3Backend) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	metrics.RecordStoreOperation("head_object", time.Since(start), err == nil || IsNotFound(err))
	if err != nil {
		return nil, fmt.Errorf("head object %q: %w", key, err)
	}

	return &ObjectInfo{
		Key:          key,
		ETag:         trimETag(resp.ETag),
		Size:         aws.ToInt64(resp.ContentLength),
		ContentType:  aws.ToString(resp.ContentType),
		Metadata:     resp.Metadata,
		LastModified: aws.ToTime(resp.LastModified),
	}, nil
}

// ===================================================================================================

func (s *S3Backend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s3Params := &s3.PutObjectInput{
		Bucket:        &s.config.BucketName,
		Key:           &params.Key,
		Body:          params.Body,
		ContentLength: aws.Int64(params.Size),
		Metadata:      params.Metadata,
	}
	if params.ContentType != "" {
		s3Params.ContentType = aws.String(params.ContentType)
	}
	if params.ACL != "" {
		s3Params.ACL = types.ObjectCannedACL(params.ACL)
	}

	start := time.Now()
	resp, err := s.s3Client.PutObject(ctx, s3Params)
	metrics.RecordStoreOperation("put_object", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", params.Key, err)
	}

	// s3.PutObjectOutput does not have LastModified
	return &PutObjectResponse{
		Key:          params.Key,
		Size:         params.Size,
		Version:      aws.ToString(resp.VersionId),
		ETag:         trimETag(resp.ETag),
		LastModified: time.Now().UTC(),
	}, nil
}

// ===================================================================================================

func (s *S3Backend) CopyObject(ctx context.Context, params *CopyObjectParams) (*CopyObjectResponse, error) {
	if !ValidateKey(params.SourceKey) {
		return nil, fmt.Errorf("invalid source key: %s", params.SourceKey)
	}
	if !ValidateKey(params.DestinationKey) {
		return nil, fmt.Errorf("invalid destination key: %s", params.DestinationKey)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	resp, err := s.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &s.config.BucketName,
		CopySource: aws.String(s.config.BucketName + "/" + url.PathEscape(params.SourceKey)),
		Key:        &params.DestinationKey,
	})
	metrics.RecordStoreOperation("copy_object", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("copy %q -> %q: %w", params.SourceKey, params.DestinationKey, err)
	}

	result := &CopyObjectResponse{}
	if resp.CopyObjectResult != nil {
		result.ETag = trimETag(resp.CopyObjectResult.ETag)
		result.LastModified = aws.ToTime(resp.CopyObjectResult.LastModified)
	}
	return result, nil
}

// ===================================================================================================

func (s *S3Backend) DeleteObject(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &key,
	})
	metrics.RecordStoreOperation("delete_object", time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (s *S3Backend) DeleteObjects(ctx context.Context, keys []string) (*DeleteObjectsResponse, error) {
	if len(keys) == 0 {
		return &DeleteObjectsResponse{}, nil
	}
	if len(keys) > MaxDeleteObjects {
		return nil, fmt.Errorf("delete objects: batch of %d exceeds limit %d", len(keys), MaxDeleteObjects)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	start := time.Now()
	resp, err := s.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: &s.config.BucketName,
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false),
		},
	})
	metrics.RecordStoreOperation("delete_objects", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("delete objects: %w", err)
	}

	result := &DeleteObjectsResponse{
		Deleted: make([]string, 0, len(resp.Deleted)),
		Errors:  make([]*DeleteError, 0, len(resp.Errors)),
	}
	for _, d := range resp.Deleted {
		result.Deleted = append(result.Deleted, aws.ToString(d.Key))
	}
	for _, e := range resp.Errors {
		result.Errors = append(result.Errors, &DeleteError{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}
	return result, nil
}

// ===================================================================================================

func (s *S3Backend) PresignPutObject(ctx context.Context, params *PresignPutParams) (*PresignedRequest, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	input := &s3.PutObjectInput{
		Bucket:   &s.config.BucketName,
		Key:      &params.Key,
		Metadata: params.Metadata,
	}
	if params.ContentType != "" {
		input.ContentType = aws.String(params.ContentType)
	}
	if params.ACL != "" {
		input.ACL = types.ObjectCannedACL(params.ACL)
	}

	req, err := s.s3Presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = params.Expires
	})
	if err != nil {
		return nil, fmt.Errorf("presign put %q: %w", params.Key, err)
	}

	return &PresignedRequest{
		URL:          req.URL,
		Method:       req.Method,
		SignedHeader: req.SignedHeader,
	}, nil
}

func (s *S3Backend) PresignGetObject(ctx context.Context, params *PresignGetParams) (*PresignedRequest, error) {
	if !ValidateKey(params.Key) {
		return nil, ErrInvalidKey
	}

	input := &s3.GetObjectInput{
		Bucket: &s.config.BucketName,
		Key:    &params.Key,
	}
	if params.ContentDisposition != "" {
		input.ResponseContentDisposition = aws.String(params.ContentDisposition)
	}

	req, err := s.s3Presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = params.Expires
	})
	if err != nil {
		return nil, fmt.Errorf("presign get %q: %w", params.Key, err)
	}

	return &PresignedRequest{
		URL:          req.URL,
		Method:       req.Method,
		SignedHeader: req.SignedHeader,
	}, nil
}

// ===================================================================================================

func (s *S3Backend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.CallTimeout)
}

func trimETag(etag *string) string {
	return strings.ReplaceAll(aws.ToString(etag), "\"", "")
}

var _ IBlobBackend = (*S3Backend)(nil)
