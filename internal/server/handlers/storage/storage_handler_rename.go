package storage

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

func (h *StorageHandler) Rename(ctx *gin.Context) {
	var req RenameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	ctx.Set(api.TargetContextKey, req.OldKey+" -> "+req.NewKey)
	res, err := h.svc.Rename(ctx.Request.Context(), req.OldKey, req.NewKey, req.IsFolder)
	if err != nil {
		api.AbortWithKind(ctx, err)
		return
	}

	resp := &RenameResponse{
		OldKey:   h.path(res.OldKey),
		NewKey:   h.path(res.NewKey),
		IsFolder: res.IsFolder,
		Outcome:  string(res.Outcome),
		Moved:    res.Moved(),
		Moves:    make([]*MoveResponse, 0, len(res.Moves)),
	}
	for _, m := range res.Moves {
		resp.Moves = append(resp.Moves, &MoveResponse{
			From:   h.path(m.From),
			To:     h.path(m.To),
			Status: string(m.Status),
			Reason: m.Reason,
		})
	}

	if res.Outcome == hierarchy.OutcomePartialFailure {
		failed := res.FailedKeys()
		api.Partial(ctx, resp,
			fmt.Sprintf("%d of %d keys did not move cleanly", len(failed), len(res.Moves)),
			h.paths(failed))
		return
	}
	api.OK(ctx, resp)
}
