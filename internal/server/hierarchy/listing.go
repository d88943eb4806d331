package hierarchy

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ruangobat/storagehub/internal/server/blob"
)

var (
	errTruncatedWithoutToken = errors.New("store reported a truncated page without a continuation token")
	errRepeatedToken         = errors.New("store returned the same continuation token twice")
)

// List returns one level of the hierarchy under path. Every store page is
// drained; a listing is never returned truncated.
func (s *Service) List(ctx context.Context, path string) (*Listing, error) {
	const op = "list"

	key, err := s.codec.ToStoreKey(path)
	if err != nil {
		return nil, err
	}
	prefix := s.codec.ToFolderKey(key)

	listing := &Listing{
		Prefix:  prefix,
		Folders: make([]Entry, 0),
		Files:   make([]Entry, 0),
	}

	err = s.walk(ctx, prefix, Separator, func(page *blob.ListObjectsPage) {
		for _, cp := range page.CommonPrefixes {
			listing.Folders = append(listing.Folders, Entry{Key: cp, IsFolder: true})
		}
		for _, obj := range page.Objects {
			if isFolderMarker(obj) {
				continue
			}
			modified := obj.LastModified
			listing.Files = append(listing.Files, Entry{
				Key:          obj.Key,
				Size:         uint64(max(obj.Size, 0)),
				LastModified: &modified,
			})
		}
	})
	if err != nil {
		return nil, storageUnavailable(op, prefix, err)
	}

	slog.Debug("hierarchy list", "prefix", prefix, "folders", len(listing.Folders), "files", len(listing.Files))
	return listing, nil
}

// enumerate collects every key under prefix, at any depth
func (s *Service) enumerate(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.walk(ctx, prefix, "", func(page *blob.ListObjectsPage) {
		for _, obj := range page.Objects {
			keys = append(keys, obj.Key)
		}
	})
	return keys, err
}

// walk issues ListObjects until the store reports no continuation
func (s *Service) walk(ctx context.Context, prefix, delimiter string, fn func(*blob.ListObjectsPage)) error {
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		page, err := s.backend.ListObjects(ctx, &blob.ListObjectsParams{
			Prefix:            prefix,
			Delimiter:         delimiter,
			ContinuationToken: token,
			MaxKeys:           s.config.ListPageSize,
		})
		if err != nil {
			return err
		}
		slog.Debug("list page", "prefix", prefix, "objects", len(page.Objects), "prefixes", len(page.CommonPrefixes), "took", time.Since(start))

		fn(page)

		if !page.IsTruncated {
			return nil
		}
		if page.NextContinuationToken == "" {
			return errTruncatedWithoutToken
		}
		if page.NextContinuationToken == token {
			return errRepeatedToken
		}
		token = page.NextContinuationToken
	}
}

// isFolderMarker reports whether obj is a zero-byte key ending in the separator
func isFolderMarker(obj *blob.ObjectInfo) bool {
	return obj.Size == 0 && IsFolderKey(obj.Key)
}
