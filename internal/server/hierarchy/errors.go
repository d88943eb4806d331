package hierarchy

import (
	"errors"
	"fmt"
)

// Kind classifies a hierarchy failure. The gateway maps each kind to one response status.
type Kind string

const (
	KindInvalidPath        Kind = "InvalidPath"
	KindInvalidName        Kind = "InvalidName"
	KindInvalidRequest     Kind = "InvalidRequest"
	KindNotFound           Kind = "NotFound"
	KindStorageUnavailable Kind = "StorageUnavailable"
	KindPartialFailure     Kind = "PartialFailure"
	KindGrantIssuance      Kind = "GrantIssuance"
)

// Error is returned by every Service operation that fails as a whole.
// Multi-key operations that partially commit do not return an Error, they
// return a result whose Outcome is OutcomePartialFailure.
type Error struct {
	Kind    Kind
	Op      string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %q: %s", e.Op, e.Key, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) Kind {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func newError(kind Kind, op, key, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Message: message, Err: cause}
}

func invalidPath(op, key, message string) *Error {
	return newError(KindInvalidPath, op, key, message, nil)
}

func invalidName(op, name, message string) *Error {
	return newError(KindInvalidName, op, name, message, nil)
}

func invalidRequest(op, message string) *Error {
	return newError(KindInvalidRequest, op, "", message, nil)
}

func notFound(op, key string, cause error) *Error {
	return newError(KindNotFound, op, key, "not found", cause)
}

func storageUnavailable(op, key string, cause error) *Error {
	return newError(KindStorageUnavailable, op, key, "storage unavailable", cause)
}

func grantIssuance(op, key string, cause error) *Error {
	return newError(KindGrantIssuance, op, key, "grant issuance failed", cause)
}
