package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every gateway route answers with
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func OK(ctx *gin.Context, data any) {
	ctx.PureJSON(http.StatusOK, &Response{Success: true, Data: data})
}

// Partial answers a multi-key operation that committed only some keys.
// The full result is carried alongside the keys that did not complete.
func Partial(ctx *gin.Context, data any, message string, failedKeys []string) {
	ctx.PureJSON(http.StatusMultiStatus, &Response{
		Success: false,
		Data:    data,
		Error: &APIError{
			Kind:       KindPartialFailure,
			Message:    message,
			FailedKeys: failedKeys,
		},
	})
}

func AbortWithError(ctx *gin.Context, status int, kind string, err error) {
	ctx.Abort()
	ctx.Error(err)
	ctx.PureJSON(status, &Response{
		Success: false,
		Error: &APIError{
			Kind:    kind,
			Message: err.Error(),
		},
	})
}

// AbortWithKind maps err to its kind and status and aborts
func AbortWithKind(ctx *gin.Context, err error) {
	kind := ErrorKind(err)
	AbortWithError(ctx, StatusOf(kind), kind, err)
}

// FailWithData answers a batch request where nothing succeeded, keeping the per-item detail
func FailWithData(ctx *gin.Context, status int, kind string, message string, data any) {
	ctx.PureJSON(status, &Response{
		Success: false,
		Data:    data,
		Error: &APIError{
			Kind:    kind,
			Message: message,
		},
	})
}
