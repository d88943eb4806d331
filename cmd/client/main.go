package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/ruangobat/storagehub/internal/sdk"
	"github.com/ruangobat/storagehub/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix        = "STORAGEHUB"
	defaultServerURL = "http://127.0.0.1:8080"
)

var (
	red   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green = color.New(color.FgHiGreen).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storagehub",
		Short:         "Browse and manage a storagehub bucket as folders",
		Version:       version.Detailed(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("server", "s", defaultServerURL, "storagehub gateway url")
	root.PersistentFlags().StringP("token", "t", "", "access token")
	root.PersistentFlags().StringP("actor", "a", "", "actor name when the gateway runs without auth")
	root.PersistentFlags().StringP("config", "c", "", "config file with server_url, token and actor")
	root.PersistentFlags().Duration("timeout", 30*time.Second, "gateway request timeout")

	root.AddCommand(
		newListCmd(),
		newMkdirCmd(),
		newRemoveCmd(),
		newMoveCmd(),
		newUploadCmd(),
		newURLCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

// newClient resolves the gateway settings from flags, STORAGEHUB_* env vars and the config file
func newClient(cmd *cobra.Command) (*sdk.Client, error) {
	v := viper.New()

	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read '%s': %w", f.Value.String(), err)
		}
	}

	for key, flag := range map[string]string{
		"server_url": "server",
		"token":      "token",
		"actor":      "actor",
		"timeout":    "timeout",
	} {
		if err := v.BindPFlag(key, cmd.Flag(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	serverURL := v.GetString("server_url")
	if serverURL == "" {
		return nil, errors.New("server url is required")
	}

	slog.Debug("client config", "server", serverURL, "actor", v.GetString("actor"))
	return sdk.New(&sdk.Config{
		BaseURL:     serverURL,
		AccessToken: v.GetString("token"),
		Actor:       v.GetString("actor"),
		Timeout:     v.GetDuration("timeout"),
	})
}
