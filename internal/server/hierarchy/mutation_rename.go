package hierarchy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/metrics"
	"golang.org/x/sync/errgroup"
)

// Rename moves an object, or every object under a folder, by copying each key
// to its new location and then deleting the source. A trailing separator on
// either path implies a folder.
//
// There is no atomicity across keys. A single-object rename whose copy fails
// returns an error and leaves the source untouched. A folder rename migrates
// keys independently and reports a per-key status. Existing objects at the
// destination are overwritten.
func (s *Service) Rename(ctx context.Context, oldPath, newPath string, isFolder bool) (*RenameResult, error) {
	const op = "rename"

	oldKey, err := s.codec.ToStoreKey(oldPath)
	if err != nil {
		return nil, err
	}
	newKey, err := s.codec.ToStoreKey(newPath)
	if err != nil {
		return nil, err
	}
	if s.codec.IsRoot(oldKey) || s.codec.IsRoot(newKey) {
		return nil, invalidPath(op, oldPath, "the root folder cannot be renamed")
	}

	if isFolder || IsFolderKey(oldKey) {
		return s.renameFolder(ctx, s.codec.ToFolderKey(oldKey), s.codec.ToFolderKey(newKey))
	}
	if IsFolderKey(newKey) {
		return nil, invalidPath(op, newPath, "a file cannot be renamed to a folder path")
	}
	if oldKey == newKey {
		return nil, invalidPath(op, oldPath, "source and destination are the same")
	}
	return s.renameObject(ctx, oldKey, newKey)
}

func (s *Service) renameObject(ctx context.Context, oldKey, newKey string) (*RenameResult, error) {
	const op = "rename"

	_, err := s.backend.CopyObject(ctx, &blob.CopyObjectParams{
		SourceKey:      oldKey,
		DestinationKey: newKey,
	})
	if err != nil {
		metrics.RecordMutation(op, "failure", 1)
		if blob.IsNotFound(err) {
			return nil, notFound(op, oldKey, err)
		}
		return nil, storageUnavailable(op, oldKey, err)
	}

	move := KeyMove{From: oldKey, To: newKey, Status: MoveMoved}
	if err := s.backend.DeleteObject(ctx, oldKey); err != nil && !blob.IsNotFound(err) {
		move.Status = MoveDeleteFailed
		move.Reason = err.Error()
		slog.Warn("rename left source in place", "from", oldKey, "to", newKey, "error", err)
	}

	result := &RenameResult{
		OldKey:  oldKey,
		NewKey:  newKey,
		Moves:   []KeyMove{move},
		Outcome: outcomeOf(len(failedMoves([]KeyMove{move}))),
	}
	metrics.RecordMutation(op, string(result.Outcome), 1)

	slog.Info("object renamed", "from", oldKey, "to", newKey, "outcome", result.Outcome)
	return result, nil
}

func (s *Service) renameFolder(ctx context.Context, oldPrefix, newPrefix string) (*RenameResult, error) {
	const op = "rename_folder"

	if oldPrefix == newPrefix {
		return nil, invalidPath(op, oldPrefix, "source and destination are the same")
	}
	if strings.HasPrefix(newPrefix, oldPrefix) {
		return nil, invalidPath(op, newPrefix, "destination is inside the source folder")
	}

	keys, err := s.enumerate(ctx, oldPrefix)
	if err != nil {
		metrics.RecordMutation(op, "failure", 0)
		return nil, storageUnavailable(op, oldPrefix, err)
	}
	if len(keys) == 0 {
		return nil, notFound(op, oldPrefix, nil)
	}

	moves := make([]KeyMove, len(keys))
	g := new(errgroup.Group)
	g.SetLimit(s.config.RenameWorkers)
	for i, key := range keys {
		moves[i] = KeyMove{From: key, To: newPrefix + strings.TrimPrefix(key, oldPrefix)}
		g.Go(func() error {
			s.moveKey(ctx, &moves[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := failedMoves(moves)
	result := &RenameResult{
		OldKey:   oldPrefix,
		NewKey:   newPrefix,
		IsFolder: true,
		Moves:    moves,
		Outcome:  outcomeOf(len(failed)),
	}
	metrics.RecordMutation(op, string(result.Outcome), len(keys))

	if result.Outcome == OutcomeSuccess {
		slog.Info("folder renamed", "from", oldPrefix, "to", newPrefix, "keys", len(keys))
	} else {
		slog.Warn("folder rename incomplete", "from", oldPrefix, "to", newPrefix, "keys", len(keys), "failed", len(failed))
	}
	return result, nil
}

// moveKey copies then deletes one key. The delete is never issued unless the copy committed.
func (s *Service) moveKey(ctx context.Context, move *KeyMove) {
	if ctx.Err() != nil {
		move.Status = MoveCanceled
		move.Reason = reasonCanceled
		return
	}

	_, err := s.backend.CopyObject(ctx, &blob.CopyObjectParams{
		SourceKey:      move.From,
		DestinationKey: move.To,
	})
	if err != nil {
		move.Status = MoveCopyFailed
		move.Reason = err.Error()
		if ctx.Err() != nil {
			move.Status = MoveCanceled
			move.Reason = reasonCanceled
		}
		return
	}

	// the copy committed, a cancellation from here on leaves both keys live
	if ctx.Err() != nil {
		move.Status = MoveDeleteFailed
		move.Reason = reasonCanceled
		return
	}
	if err := s.backend.DeleteObject(ctx, move.From); err != nil && !blob.IsNotFound(err) {
		move.Status = MoveDeleteFailed
		move.Reason = err.Error()
		return
	}
	move.Status = MoveMoved
}

func failedMoves(moves []KeyMove) []KeyMove {
	failed := make([]KeyMove, 0)
	for _, m := range moves {
		if m.Status != MoveMoved {
			failed = append(failed, m)
		}
	}
	return failed
}
