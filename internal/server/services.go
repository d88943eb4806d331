package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ruangobat/storagehub/internal/server/accesslog"
	"github.com/ruangobat/storagehub/internal/server/auth"
	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

type Services struct {
	Blob      *blob.BlobService
	Auth      *auth.AuthService
	Hierarchy *hierarchy.Service
	AccessLog *accesslog.AccessLogger // nil when no log_dir is configured
}

func NewServices(ctx context.Context, config *Config) (*Services, error) {
	blobSvc, err := blob.NewBlobService(ctx, &config.Blob)
	if err != nil {
		return nil, fmt.Errorf("create blob service: %w", err)
	}
	return newServices(config, blobSvc)
}

func newServices(config *Config, blobSvc *blob.BlobService) (*Services, error) {
	svc := &Services{
		Blob:      blobSvc,
		Auth:      auth.NewAuthService(&config.Auth),
		Hierarchy: hierarchy.NewService(blobSvc.Backend(), &config.Hierarchy),
	}

	if config.LogDir != "" {
		al, err := accesslog.New(filepath.Join(config.LogDir, "access"), slog.Default())
		if err != nil {
			return nil, fmt.Errorf("create access log: %w", err)
		}
		svc.AccessLog = al
	}
	return svc, nil
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Blob.Start(ctx); err != nil {
		return fmt.Errorf("start blob service: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.Blob.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop blob service: %w", err))
	}
	if s.AccessLog != nil {
		if err := s.AccessLog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close access log: %w", err))
		}
	}
	return errors.Join(errs...)
}
