package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config *Config
	server *http.Server
	svc    *Services
}

func New(ctx context.Context, config *Config) (*Server, error) {
	svc, err := NewServices(ctx, config)
	if err != nil {
		return nil, err
	}
	return newServer(config, svc), nil
}

func newServer(config *Config, svc *Services) *Server {
	return &Server{
		config: config,
		svc:    svc,
		server: &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           SetupRoutes(config, svc),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start runs the gateway until ctx is canceled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	slog.Info("storagehub server start", "config", s.config)
	defer slog.Info("storagehub server stop")

	if err := s.svc.Start(ctx); err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.runHttpServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		slog.Info("http server stopped")
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal")
	case err := <-errCh:
		slog.Error("http server error", "error", err)
		_ = s.svc.Shutdown(context.Background())
		return err
	}

	if err := s.Stop(context.Background()); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return s.svc.Shutdown(shutdownCtx)
}

func (s *Server) runHttpServer() error {
	cfg := s.config.HTTP
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		slog.Info("server start tls", "addr", cfg.Addr, "cert", cfg.CertFile, "key", cfg.KeyFile)
		return s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	}
	slog.Info("server start http", "addr", cfg.Addr)
	return s.server.ListenAndServe()
}
