package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/handlers/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// call sends the request and unwraps the envelope. A partial result comes back
// with both its data and an *APIError of kind PartialFailure.
func call[T any](ctx context.Context, r *req.Request, method, path string) (*T, error) {
	resp, err := r.SetContext(ctx).Send(method, path)
	if err != nil {
		return nil, fmt.Errorf("sdk: %s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Bytes(), &env); err != nil {
		return nil, fmt.Errorf("sdk: %s %s: decode %q: %w", method, path, resp.Status, err)
	}

	var data *T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		data = new(T)
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, fmt.Errorf("sdk: %s %s: decode data: %w", method, path, err)
		}
	}

	if !env.Success {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Kind: api.KindInternal, Message: resp.Status}
		}
		apiErr.Status = resp.StatusCode
		return data, apiErr
	}
	return data, nil
}

func (c *Client) List(ctx context.Context, prefix, match string) (*storage.ListResponse, error) {
	r := c.client.R().SetQueryParam("prefix", prefix)
	if match != "" {
		r.SetQueryParam("match", match)
	}
	return call[storage.ListResponse](ctx, r, http.MethodGet, "/list")
}

func (c *Client) CreateFolder(ctx context.Context, parentPath, name string) (*storage.FolderResponse, error) {
	r := c.client.R().SetBody(&storage.CreateFolderRequest{
		Name:       name,
		ParentPath: parentPath,
	})
	return call[storage.FolderResponse](ctx, r, http.MethodPost, "/folder")
}

func (c *Client) Delete(ctx context.Context, key string, isFolder bool) (*storage.DeleteResponse, error) {
	r := c.client.R().
		SetQueryParam("key", key).
		SetQueryParam("isFolder", strconv.FormatBool(isFolder)).
		// mutations are sent once
		SetRetryCount(0)
	return call[storage.DeleteResponse](ctx, r, http.MethodDelete, "/object")
}

func (c *Client) Rename(ctx context.Context, oldKey, newKey string, isFolder bool) (*storage.RenameResponse, error) {
	r := c.client.R().
		SetBody(&storage.RenameRequest{OldKey: oldKey, NewKey: newKey, IsFolder: isFolder}).
		SetRetryCount(0)
	return call[storage.RenameResponse](ctx, r, http.MethodPost, "/rename")
}

func (c *Client) PresignUpload(ctx context.Context, params *storage.PresignUploadRequest) (*storage.PresignUploadResponse, error) {
	r := c.client.R().SetBody(params)
	return call[storage.PresignUploadResponse](ctx, r, http.MethodPost, "/presign-upload")
}

func (c *Client) PresignDownload(ctx context.Context, key string, ttl time.Duration) (*storage.GrantResponse, error) {
	r := c.client.R().SetQueryParam("key", key)
	if ttl > 0 {
		r.SetQueryParam("ttlSeconds", strconv.FormatInt(int64(ttl.Seconds()), 10))
	}
	return call[storage.GrantResponse](ctx, r, http.MethodGet, "/presign-download")
}
