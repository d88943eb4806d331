package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/metrics"
)

// Delete removes a single object, or a folder and everything under it.
// A trailing separator on path implies a folder.
//
// Deleting a missing object succeeds. A folder delete enumerates the subtree
// first; if enumeration fails nothing is deleted and an error is returned.
// Otherwise keys are removed in sequential batches and the result reports
// every key that could not be removed. Nothing is retried or rolled back.
func (s *Service) Delete(ctx context.Context, path string, isFolder bool) (*DeleteResult, error) {
	const op = "delete"

	key, err := s.codec.ToStoreKey(path)
	if err != nil {
		return nil, err
	}
	if s.codec.IsRoot(key) {
		return nil, invalidPath(op, path, "the root folder cannot be deleted")
	}

	if isFolder || IsFolderKey(key) {
		return s.deleteFolder(ctx, s.codec.ToFolderKey(key))
	}
	return s.deleteObject(ctx, key)
}

func (s *Service) deleteObject(ctx context.Context, key string) (*DeleteResult, error) {
	const op = "delete"

	if err := s.backend.DeleteObject(ctx, key); err != nil && !blob.IsNotFound(err) {
		metrics.RecordMutation(op, "failure", 1)
		return nil, storageUnavailable(op, key, err)
	}
	metrics.RecordMutation(op, string(OutcomeSuccess), 1)

	slog.Info("object deleted", "key", key)
	return &DeleteResult{
		Key:     key,
		Outcome: OutcomeSuccess,
		Deleted: 1,
		Failed:  make([]KeyFailure, 0),
	}, nil
}

func (s *Service) deleteFolder(ctx context.Context, prefix string) (*DeleteResult, error) {
	const op = "delete_folder"

	listed, err := s.enumerate(ctx, prefix)
	if err != nil {
		metrics.RecordMutation(op, "failure", 0)
		return nil, storageUnavailable(op, prefix, err)
	}

	// the marker is always included, some stores omit it from prefix listings
	keySet := mapset.NewThreadUnsafeSet(listed...)
	keySet.Add(prefix)
	keys := keySet.ToSlice()
	slices.Sort(keys)

	result := &DeleteResult{
		Key:      prefix,
		IsFolder: true,
		Failed:   make([]KeyFailure, 0),
	}

	batches := slices.Collect(slices.Chunk(keys, s.config.BatchDeleteLimit))
	for i, batch := range batches {
		if ctx.Err() != nil {
			for _, rest := range batches[i:] {
				result.Failed = appendFailures(result.Failed, rest, reasonCanceled)
			}
			slog.Warn("folder delete canceled", "prefix", prefix, "batch", i, "batches", len(batches))
			break
		}

		result.Batches++
		resp, err := s.backend.DeleteObjects(ctx, batch)
		if err != nil {
			reason := err.Error()
			if errors.Is(err, context.Canceled) {
				reason = reasonCanceled
			}
			result.Failed = appendFailures(result.Failed, batch, reason)
			slog.Warn("delete batch failed", "prefix", prefix, "batch", i, "keys", len(batch), "error", err)
			continue
		}

		failed := make(map[string]struct{}, len(resp.Errors))
		for _, e := range resp.Errors {
			failed[e.Key] = struct{}{}
			result.Failed = append(result.Failed, KeyFailure{
				Key:    e.Key,
				Reason: fmt.Sprintf("%s: %s", e.Code, e.Message),
			})
		}
		result.Deleted += len(batch) - len(failed)
	}

	result.Outcome = outcomeOf(len(result.Failed))
	metrics.RecordMutation(op, string(result.Outcome), len(keys))

	if result.Outcome == OutcomeSuccess {
		slog.Info("folder deleted", "prefix", prefix, "keys", len(keys), "batches", result.Batches)
	} else {
		slog.Warn("folder delete incomplete", "prefix", prefix, "keys", len(keys), "failed", len(result.Failed), "batches", result.Batches)
	}
	return result, nil
}

func appendFailures(failures []KeyFailure, keys []string, reason string) []KeyFailure {
	for _, key := range keys {
		failures = append(failures, KeyFailure{Key: key, Reason: reason})
	}
	return failures
}
