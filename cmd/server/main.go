package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/ruangobat/storagehub/internal/server"
	"github.com/ruangobat/storagehub/internal/server/auth"
	"github.com/ruangobat/storagehub/internal/utils"
	"github.com/ruangobat/storagehub/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "STORAGEHUB"
	configFileName = "storagehub"
	logFileName    = "server.log"
)

var consoleHandler slog.Handler = tint.NewHandler(os.Stdout, &tint.Options{
	Level:      slog.LevelDebug,
	TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
})

var rootCmd = &cobra.Command{
	Use:     "storagehub-server",
	Short:   "storagehub gateway: a folder hierarchy over an S3 bucket",
	Version: version.Detailed(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		closeLog, err := setupFileLog(cfg.LogDir)
		if err != nil {
			return err
		}
		defer closeLog()

		srv, err := server.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer slog.Info("Bye!")
		return srv.Start(cmd.Context())
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint an access token for local development",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		token, err := auth.NewAuthService(&cfg.Auth).MintAccessToken(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "f", "", "config file (yaml or json)")
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("bind", "b", server.DefaultAddr, "address to bind the server")
	rootCmd.Flags().StringP("cert", "c", "", "TLS certificate file")
	rootCmd.Flags().StringP("key", "k", "", "TLS key file")
	rootCmd.Flags().String("driver", "", "blob driver, s3 or memory")
	rootCmd.Flags().String("bucket", "", "bucket name")
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	slog.SetDefault(slog.New(consoleHandler))

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv load", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, STORAGEHUB_* env vars and flags, in rising priority
func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()

	if f := cmd.Flag("config"); f != nil && f.Changed {
		v.SetConfigFile(f.Value.String())
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", "storagehub"))
		v.AddConfigPath("/etc/storagehub")
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	// every key needs a default for AutomaticEnv to reach it during Unmarshal
	v.SetDefault("http.addr", server.DefaultAddr)
	v.SetDefault("http.cert_file", "")
	v.SetDefault("http.key_file", "")
	v.SetDefault("http.rate_limit", server.DefaultRateLimit)
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("blob.driver", "s3")
	v.SetDefault("blob.bucket_name", "")
	v.SetDefault("blob.region", "")
	v.SetDefault("blob.access_key", "")
	v.SetDefault("blob.secret_key", "")
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.use_accelerate", false)
	v.SetDefault("blob.call_timeout", "30s")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.token_issuer", "")
	v.SetDefault("auth.access_token_secret", "")
	v.SetDefault("auth.access_token_expiry", "24h")
	v.SetDefault("hierarchy.root_prefix", "")
	v.SetDefault("hierarchy.batch_delete_limit", 0)
	v.SetDefault("hierarchy.rename_workers", 0)
	v.SetDefault("hierarchy.list_page_size", 0)
	v.SetDefault("hierarchy.object_acl", "")
	v.SetDefault("hierarchy.upload_ttl", "1h")
	v.SetDefault("hierarchy.download_ttl", "30m")
	v.SetDefault("log_dir", "")

	for key, flag := range map[string]string{
		"http.addr":        "bind",
		"http.cert_file":   "cert",
		"http.key_file":    "key",
		"blob.driver":      "driver",
		"blob.bucket_name": "bucket",
	} {
		if f := cmd.Flag(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := &server.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setupFileLog tees the default logger into logDir/server.log. No-op when logDir is empty.
func setupFileLog(logDir string) (func(), error) {
	if logDir == "" {
		return func() {}, nil
	}
	if err := utils.EnsureDir(logDir); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(utils.NewMultiLogHandler(consoleHandler, fileHandler)))

	return func() {
		slog.SetDefault(slog.New(consoleHandler))
		file.Close()
	}, nil
}
