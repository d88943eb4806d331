package storage

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

type StorageHandler struct {
	svc *hierarchy.Service
}

func New(svc *hierarchy.Service) *StorageHandler {
	return &StorageHandler{svc: svc}
}

func (h *StorageHandler) path(key string) string {
	return h.svc.Codec().ToPath(key)
}

func (h *StorageHandler) paths(keys []string) []string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = h.path(key)
	}
	return out
}

// displayName is the last path element of key below prefix, without the folder separator
func displayName(key, prefix string) string {
	return strings.TrimSuffix(hierarchy.DisplayName(key, prefix), hierarchy.Separator)
}

func abortBind(ctx *gin.Context, err error) {
	api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest, fmt.Errorf("failed to bind request: %w", err))
}

func abortNoActor(ctx *gin.Context) {
	api.AbortWithError(ctx, http.StatusBadRequest, api.KindInvalidRequest,
		fmt.Errorf("actor is required, set the %q field or the %s header", "actor", api.ActorHeader))
}
