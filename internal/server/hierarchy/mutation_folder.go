package hierarchy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ruangobat/storagehub/internal/server/blob"
	"github.com/ruangobat/storagehub/internal/server/metrics"
	"github.com/ruangobat/storagehub/internal/utils"
)

// MetaCreatedBy is the user metadata key carrying the actor that created an object
const MetaCreatedBy = "x-created-by"

// CreateFolder writes a zero-byte marker for parentPath/name. Only a single
// level is created per call: names containing a separator are rejected.
// Re-creating an existing folder overwrites the marker metadata.
func (s *Service) CreateFolder(ctx context.Context, parentPath, name, actor string) (*FolderMarker, error) {
	const op = "create_folder"

	if err := validateFolderName(op, name); err != nil {
		return nil, err
	}
	if actor == "" {
		return nil, invalidRequest(op, "actor is required")
	}

	key, err := s.codec.ToStoreKey(JoinPath(parentPath, name))
	if err != nil {
		return nil, err
	}
	folderKey := s.codec.ToFolderKey(key)

	_, err = s.backend.PutObject(ctx, &blob.PutObjectParams{
		Key:         folderKey,
		Size:        0,
		Body:        strings.NewReader(""),
		ContentType: utils.DirectoryContentType,
		Metadata:    map[string]string{MetaCreatedBy: actor},
		ACL:         s.config.ObjectACL,
	})
	if err != nil {
		metrics.RecordMutation(op, "failure", 1)
		return nil, storageUnavailable(op, folderKey, err)
	}
	metrics.RecordMutation(op, string(OutcomeSuccess), 1)

	slog.Info("folder created", "key", folderKey, "actor", actor)
	return &FolderMarker{
		Key:       folderKey,
		CreatedBy: actor,
		CreatedAt: s.now(),
	}, nil
}

func validateFolderName(op, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalidName(op, name, "folder name is empty")
	case name == "." || name == "..":
		return invalidName(op, name, "folder name is reserved")
	case strings.Contains(name, Separator) || strings.Contains(name, "\\"):
		return invalidName(op, name, "folder name must not contain a separator")
	}
	return nil
}
