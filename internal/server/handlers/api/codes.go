package api

import (
	"net/http"

	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

// Error kinds carried in the response envelope. The hierarchy kinds are reused
// as-is so the two never drift.
const (
	KindInvalidPath        = string(hierarchy.KindInvalidPath)
	KindInvalidName        = string(hierarchy.KindInvalidName)
	KindInvalidRequest     = string(hierarchy.KindInvalidRequest)
	KindNotFound           = string(hierarchy.KindNotFound)
	KindStorageUnavailable = string(hierarchy.KindStorageUnavailable)
	KindPartialFailure     = string(hierarchy.KindPartialFailure)
	KindGrantIssuance      = string(hierarchy.KindGrantIssuance)

	KindUnauthorized = "Unauthorized" // access token missing, expired or malformed
	KindRateLimited  = "RateLimited"  // rate limit exceeded
	KindInternal     = "Internal"     // unexpected server failure
)

var kindStatus = map[string]int{
	KindInvalidPath:        http.StatusBadRequest,
	KindInvalidName:        http.StatusBadRequest,
	KindInvalidRequest:     http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindStorageUnavailable: http.StatusServiceUnavailable,
	KindPartialFailure:     http.StatusMultiStatus,
	KindGrantIssuance:      http.StatusBadGateway,
	KindUnauthorized:       http.StatusUnauthorized,
	KindRateLimited:        http.StatusTooManyRequests,
	KindInternal:           http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for an error kind, 500 for unknown kinds
func StatusOf(kind string) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
