package sdk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruangobat/storagehub/internal/server/handlers/storage"
	"github.com/ruangobat/storagehub/internal/utils"
)

const maxErrorBody = 512

// UploadFile asks the gateway for a grant and PUTs localPath to it
func (c *Client) UploadFile(ctx context.Context, localPath, parentPath, contentType string) (*storage.GrantResponse, error) {
	name := filepath.Base(localPath)
	resp, err := c.PresignUpload(ctx, &storage.PresignUploadRequest{
		Files:      []storage.UploadFile{{Filename: name, ContentType: contentType}},
		ParentPath: parentPath,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Grants) != 1 {
		return nil, fmt.Errorf("sdk: upload %s: no grant issued", name)
	}

	grant := resp.Grants[0]
	if err := c.Put(ctx, grant, localPath); err != nil {
		return nil, err
	}
	return grant, nil
}

// Put sends localPath to a presigned upload grant, replaying its signed headers
func (c *Client) Put(ctx context.Context, grant *storage.GrantResponse, localPath string) error {
	// presigned PUTs need an exact Content-Length, so the body is sent from memory
	body, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("sdk: read %s: %w", localPath, err)
	}

	resp, err := c.transfer.R().
		SetContext(ctx).
		SetHeaders(grant.Headers).
		SetBodyBytes(body).
		Put(grant.URL)
	if err != nil {
		return fmt.Errorf("sdk: upload %s: %w", grant.Key, err)
	}
	if resp.IsErrorState() {
		return &TransferError{Method: grant.Method, Status: resp.StatusCode, Body: truncate(resp.String())}
	}
	return nil
}

// Get downloads a presigned download grant into destPath
func (c *Client) Get(ctx context.Context, grant *storage.GrantResponse, destPath string) error {
	if err := utils.EnsureParent(destPath); err != nil {
		return fmt.Errorf("sdk: download %s: %w", grant.Key, err)
	}

	tmp := destPath + ".part"
	resp, err := c.transfer.R().
		SetContext(ctx).
		SetOutputFile(tmp).
		Get(grant.URL)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("sdk: download %s: %w", grant.Key, err)
	}
	if resp.IsErrorState() {
		// error bodies land in the output file too
		msg, _ := os.ReadFile(tmp)
		os.Remove(tmp)
		return &TransferError{Method: grant.Method, Status: resp.StatusCode, Body: truncate(string(msg))}
	}
	return os.Rename(tmp, destPath)
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
