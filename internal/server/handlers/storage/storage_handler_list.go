package storage

import (
	"fmt"
	"net/http"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

// List returns the folders and files one level below prefix.
// An optional match glob filters both by display name.
func (h *StorageHandler) List(ctx *gin.Context) {
	var req ListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	if req.Match != "" && !doublestar.ValidatePattern(req.Match) {
		api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, fmt.Errorf("invalid match pattern %q", req.Match))
		return
	}

	ctx.Set(api.TargetContextKey, req.Prefix)
	listing, err := h.svc.List(ctx.Request.Context(), req.Prefix)
	if err != nil {
		api.AbortWithKind(ctx, err)
		return
	}

	api.OK(ctx, &ListResponse{
		Prefix:  h.path(listing.Prefix),
		Folders: h.entries(listing.Folders, listing.Prefix, req.Match),
		Files:   h.entries(listing.Files, listing.Prefix, req.Match),
	})
}

func (h *StorageHandler) entries(entries []hierarchy.Entry, prefix, match string) []*EntryResponse {
	out := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		name := displayName(e.Key, prefix)
		if match != "" {
			// pattern was validated up front
			if ok, _ := doublestar.Match(match, name); !ok {
				continue
			}
		}
		out = append(out, &EntryResponse{
			Key:          e.Key,
			Path:         h.path(e.Key),
			Name:         name,
			IsFolder:     e.IsFolder,
			Size:         e.Size,
			LastModified: e.LastModified,
		})
	}
	return out
}
