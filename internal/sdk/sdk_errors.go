package sdk

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is the error half of the gateway envelope
type APIError struct {
	Status     int      `json:"-"`
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	FailedKeys []string `json:"failedKeys,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.FailedKeys) > 0 {
		return fmt.Sprintf("%s (%d): %s [%s]", e.Kind, e.Status, e.Message, strings.Join(e.FailedKeys, ", "))
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// IsKind reports whether err is an APIError of the given kind
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// TransferError is a failed PUT/GET against a presigned URL
type TransferError struct {
	Method string
	Status int
	Body   string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("presigned %s failed: %d %s", e.Method, e.Status, e.Body)
}
