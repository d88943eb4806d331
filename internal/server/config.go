package server

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ruangobat/storagehub/internal/server/auth"
	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
	"github.com/ruangobat/storagehub/internal/utils"
)

const (
	DefaultAddr      = "127.0.0.1:8080"
	DefaultRateLimit = "100-S"
)

type Config struct {
	HTTP      HTTPConfig       `mapstructure:"http"`
	Blob      blob.Config      `mapstructure:"blob"`
	Auth      auth.Config      `mapstructure:"auth"`
	Hierarchy hierarchy.Config `mapstructure:"hierarchy"`
	LogDir    string           `mapstructure:"log_dir"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`

	// RateLimit is a ulule/limiter formatted rate applied per client IP, e.g. "100-S"
	RateLimit   string   `mapstructure:"rate_limit"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

func (c *HTTPConfig) Validate() error {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RateLimit == "" {
		c.RateLimit = DefaultRateLimit
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("cert_file and key_file must be set together")
	}
	if c.CertFile != "" && !utils.FileExists(c.CertFile) {
		return fmt.Errorf("cert_file %q not found", c.CertFile)
	}
	if c.KeyFile != "" && !utils.FileExists(c.KeyFile) {
		return fmt.Errorf("key_file %q not found", c.KeyFile)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Blob.Validate(); err != nil {
		return fmt.Errorf("blob: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Hierarchy.Validate(); err != nil {
		return fmt.Errorf("hierarchy: %w", err)
	}
	if c.LogDir != "" {
		logDir, err := utils.ResolvePath(c.LogDir)
		if err != nil {
			return fmt.Errorf("log_dir: %w", err)
		}
		c.LogDir = logDir
	}
	return nil
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Group("http",
			slog.String("addr", c.HTTP.Addr),
			slog.Bool("tls", c.HTTP.CertFile != ""),
			slog.String("rate_limit", c.HTTP.RateLimit),
			slog.Any("cors_origins", c.HTTP.CORSOrigins),
		),
		slog.Group("blob",
			slog.String("driver", c.Blob.Driver),
			slog.String("bucket_name", c.Blob.BucketName),
			slog.String("region", c.Blob.Region),
			slog.String("endpoint", c.Blob.Endpoint),
			slog.String("access_key", utils.MaskSecret(c.Blob.AccessKey)),
			slog.String("secret_key", utils.MaskSecret(c.Blob.SecretKey)),
		),
		slog.Group("auth",
			slog.Bool("enabled", c.Auth.Enabled),
			slog.String("token_issuer", c.Auth.TokenIssuer),
			slog.String("access_token_secret", utils.MaskSecret(c.Auth.AccessTokenSecret)),
		),
		slog.Group("hierarchy",
			slog.String("root_prefix", c.Hierarchy.RootPrefix),
			slog.Int("batch_delete_limit", c.Hierarchy.BatchDeleteLimit),
			slog.Int("rename_workers", c.Hierarchy.RenameWorkers),
			slog.Duration("upload_ttl", c.Hierarchy.UploadTTL),
			slog.Duration("download_ttl", c.Hierarchy.DownloadTTL),
		),
		slog.String("log_dir", c.LogDir),
	)
}
