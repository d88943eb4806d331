package storage

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

func (h *StorageHandler) Delete(ctx *gin.Context) {
	var req DeleteRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	ctx.Set(api.TargetContextKey, req.Key)
	res, err := h.svc.Delete(ctx.Request.Context(), req.Key, req.IsFolder)
	if err != nil {
		api.AbortWithKind(ctx, err)
		return
	}

	resp := &DeleteResponse{
		Key:      res.Key,
		Path:     h.path(res.Key),
		IsFolder: res.IsFolder,
		Outcome:  string(res.Outcome),
		Deleted:  res.Deleted,
		Batches:  res.Batches,
		Failed:   make([]*KeyFailureResponse, 0, len(res.Failed)),
	}
	for _, f := range res.Failed {
		resp.Failed = append(resp.Failed, &KeyFailureResponse{Key: h.path(f.Key), Reason: f.Reason})
	}

	if res.Outcome == hierarchy.OutcomePartialFailure {
		api.Partial(ctx, resp,
			fmt.Sprintf("%d of %d keys could not be deleted", len(res.Failed), res.Deleted+len(res.Failed)),
			h.paths(res.FailedKeys()))
		return
	}
	api.OK(ctx, resp)
}
