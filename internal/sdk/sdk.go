// Package sdk is a typed client for the storagehub gateway.
package sdk

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/utils"
	"github.com/ruangobat/storagehub/internal/version"
)

const (
	HeaderUserAgent     = "User-Agent"
	HeaderClientVersion = "X-Storagehub-Version"

	storagePrefix = "/api/v1/storage"
)

var ErrNoServerURL = errors.New("sdk: server url missing")

var UserAgent = fmt.Sprintf("storagehub/%s (%s; %s/%s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

type Config struct {
	BaseURL     string
	AccessToken string
	// Actor is sent as X-Storage-Actor for gateways running without auth
	Actor   string
	Timeout time.Duration
}

type Client struct {
	client   *req.Client
	transfer *req.Client
}

func New(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoServerURL
	}
	if !utils.IsValidURL(cfg.BaseURL) {
		return nil, fmt.Errorf("sdk: invalid server url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := req.C().
		SetBaseURL(utils.JoinURL(cfg.BaseURL, storagePrefix)).
		SetTimeout(timeout).
		SetUserAgent(UserAgent).
		SetCommonHeader(HeaderClientVersion, version.Version).
		SetCommonRetryCount(2).
		SetCommonRetryFixedInterval(500 * time.Millisecond).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	if cfg.AccessToken != "" {
		client.SetCommonBearerAuthToken(cfg.AccessToken)
	}
	if cfg.Actor != "" {
		client.SetCommonHeader(api.ActorHeader, cfg.Actor)
	}

	// presigned transfers go straight to the store, never with gateway credentials
	transfer := req.C().
		SetUserAgent(UserAgent).
		SetCommonRetryCount(2).
		SetCommonRetryFixedInterval(time.Second)

	return &Client{client: client, transfer: transfer}, nil
}
