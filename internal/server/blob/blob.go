package blob

import (
	"context"
	"fmt"
	"log/slog"
)

// bucketChecker is implemented by backends that can verify their bucket on startup
type bucketChecker interface {
	CheckBucket(ctx context.Context) error
}

type BlobService struct {
	config  *Config
	backend IBlobBackend
}

func NewBlobService(ctx context.Context, cfg *Config) (*BlobService, error) {
	var backend IBlobBackend

	switch cfg.Driver {
	case DriverMemory:
		backend = NewMemoryBackend(cfg.BucketName)
	case DriverS3, "":
		s3Backend, err := NewS3BackendWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = s3Backend
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}

	return NewBlobServiceWithBackend(cfg, backend), nil
}

// NewBlobServiceWithBackend wraps an already constructed backend
func NewBlobServiceWithBackend(cfg *Config, backend IBlobBackend) *BlobService {
	return &BlobService{config: cfg, backend: backend}
}

// Start checks that the bucket is reachable. An unreachable bucket is logged, not fatal:
// the store may come up after the gateway does.
func (b *BlobService) Start(ctx context.Context) error {
	slog.Debug("blob service start", "driver", b.config.Driver, "bucket", b.config.BucketName)

	checker, ok := b.backend.(bucketChecker)
	if !ok {
		return nil
	}
	if err := checker.CheckBucket(ctx); err != nil {
		slog.Warn("blob bucket check failed", "bucket", b.config.BucketName, "error", err)
		return nil
	}
	slog.Info("blob bucket ready", "bucket", b.config.BucketName)
	return nil
}

// Shutdown releases any resources used by the service
func (b *BlobService) Shutdown(ctx context.Context) error {
	slog.Debug("blob service shutdown")
	return nil
}

// Backend returns the underlying blob backend instance
func (b *BlobService) Backend() IBlobBackend {
	return b.backend
}

// Bucket returns the configured bucket name
func (b *BlobService) Bucket() string {
	return b.config.BucketName
}

var _ Service = (*BlobService)(nil)
