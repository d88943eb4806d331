package api

import (
	"fmt"

	"github.com/ruangobat/storagehub/internal/server/hierarchy"
)

type APIError struct {
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	FailedKeys []string `json:"failedKeys,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storage api error: kind=%s, message=%s", e.Kind, e.Message)
}

// ErrorKind classifies err for the envelope. Errors outside the hierarchy taxonomy are Internal.
func ErrorKind(err error) string {
	if kind := hierarchy.KindOf(err); kind != "" {
		return string(kind)
	}
	return KindInternal
}
