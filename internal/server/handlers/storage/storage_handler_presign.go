package storage

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

const maxUploadBatch = 100

// grantTTL converts a requested lifetime in seconds, rejecting values the grant issuer would
// refuse before the multiplication can overflow. Zero selects the configured default.
func grantTTL(seconds int64) (time.Duration, error) {
	if seconds < 0 || seconds > int64(hierarchy.MaxGrantTTL/time.Second) {
		return 0, fmt.Errorf("ttlSeconds must be between 0 and %d", int64(hierarchy.MaxGrantTTL/time.Second))
	}
	return time.Duration(seconds) * time.Second, nil
}

// PresignUpload issues one upload grant per requested file. Files are
// independent: the response carries grants and per-file errors side by side.
func (h *StorageHandler) PresignUpload(ctx *gin.Context) {
	var req PresignUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	files := req.Files
	if len(files) == 0 && req.Filename != "" {
		files = []UploadFile{{Filename: req.Filename, ContentType: req.ContentType}}
	}
	if len(files) == 0 {
		api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, errors.New("at least one file is required"))
		return
	}
	if len(files) > maxUploadBatch {
		api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, fmt.Errorf("at most %d files per request", maxUploadBatch))
		return
	}

	actor, ok := api.Actor(ctx, req.Actor)
	if !ok {
		abortNoActor(ctx)
		return
	}

	ctx.Set(api.TargetContextKey, req.ParentPath)
	ttl, err := grantTTL(req.TTLSeconds)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, err)
		return
	}

	resp := &PresignUploadResponse{
		Grants: make([]*GrantResponse, 0, len(files)),
		Errors: make([]*GrantError, 0),
	}
	for _, file := range files {
		if file.Filename == "" {
			resp.Errors = append(resp.Errors, &GrantError{
				Kind:    api.KindInvalidName,
				Message: "filename is empty",
			})
			continue
		}

		path := hierarchy.JoinPath(req.ParentPath, file.Filename)
		grant, err := h.svc.IssueUploadGrant(ctx.Request.Context(), path, file.ContentType, actor, ttl)
		if err != nil {
			ctx.Error(err)
			resp.Errors = append(resp.Errors, &GrantError{
				Filename: file.Filename,
				Kind:     api.ErrorKind(err),
				Message:  err.Error(),
			})
			continue
		}
		resp.Grants = append(resp.Grants, h.grant(grant))
	}

	switch {
	case len(resp.Errors) == 0:
		api.OK(ctx, resp)
	case len(resp.Grants) == 0:
		kind := resp.Errors[0].Kind
		api.FailWithData(ctx, api.StatusOf(kind), kind, "no upload grants issued", resp)
	default:
		failed := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			failed = append(failed, hierarchy.JoinPath(req.ParentPath, e.Filename))
		}
		api.Partial(ctx, resp, fmt.Sprintf("%d of %d upload grants failed", len(resp.Errors), len(files)), failed)
	}
}

func (h *StorageHandler) PresignDownload(ctx *gin.Context) {
	var req PresignDownloadRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		abortBind(ctx, err)
		return
	}

	ctx.Set(api.TargetContextKey, req.Key)
	ttl, err := grantTTL(req.TTLSeconds)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, err)
		return
	}

	grant, err := h.svc.IssueDownloadGrant(ctx.Request.Context(), req.Key, ttl)
	if err != nil {
		api.AbortWithKind(ctx, err)
		return
	}
	api.OK(ctx, h.grant(grant))
}

func (h *StorageHandler) grant(g *hierarchy.AccessGrant) *GrantResponse {
	return &GrantResponse{
		Key:       g.Key,
		Path:      h.path(g.Key),
		Method:    g.Method,
		URL:       g.URL,
		ExpiresAt: g.ExpiresAt,
		Headers:   g.Headers,
	}
}
