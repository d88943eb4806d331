package storage

import (
	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

func (h *StorageHandler) CreateFolder(ctx *gin.Context) {
	var req CreateFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	actor, ok := api.Actor(ctx, req.Actor)
	if !ok {
		abortNoActor(ctx)
		return
	}

	ctx.Set(api.TargetContextKey, hierarchy.JoinPath(req.ParentPath, req.Name))
	marker, err := h.svc.CreateFolder(ctx.Request.Context(), req.ParentPath, req.Name, actor)
	if err != nil {
		api.AbortWithKind(ctx, err)
		return
	}

	path := h.path(marker.Key)
	api.OK(ctx, &FolderResponse{
		Key:       marker.Key,
		Path:      path,
		Name:      req.Name,
		CreatedBy: marker.CreatedBy,
		CreatedAt: marker.CreatedAt,
	})
}
