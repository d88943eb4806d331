package hierarchy

import "time"

// Outcome of a multi-key mutation. Failure is never an outcome: an operation
// that could not start returns an *Error instead.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial_failure"
)

// Entry is one row of a listing. Folders have zero size and no timestamp.
type Entry struct {
	Key          string
	IsFolder     bool
	Size         uint64
	LastModified *time.Time
}

type Listing struct {
	// Prefix is the store prefix that was queried
	Prefix  string
	Folders []Entry
	Files   []Entry
}

type FolderMarker struct {
	Key       string
	CreatedBy string
	CreatedAt time.Time
}

// KeyFailure names a key a mutation could not complete and why
type KeyFailure struct {
	Key    string
	Reason string
}

const reasonCanceled = "canceled"

type DeleteResult struct {
	Key      string
	IsFolder bool
	Outcome  Outcome
	Deleted  int
	Batches  int
	Failed   []KeyFailure
}

func (r *DeleteResult) FailedKeys() []string {
	return failedKeys(r.Failed)
}

type MoveStatus string

const (
	MoveMoved        MoveStatus = "moved"
	MoveCopyFailed   MoveStatus = "copy_failed"
	MoveDeleteFailed MoveStatus = "delete_failed"
	MoveCanceled     MoveStatus = "canceled"
)

// KeyMove is the per-key outcome of a rename.
// copy_failed and canceled leave only the source; delete_failed leaves both keys live.
type KeyMove struct {
	From   string
	To     string
	Status MoveStatus
	Reason string
}

type RenameResult struct {
	OldKey   string
	NewKey   string
	IsFolder bool
	Outcome  Outcome
	Moves    []KeyMove
}

// FailedKeys lists the source keys that did not move cleanly
func (r *RenameResult) FailedKeys() []string {
	keys := make([]string, 0)
	for _, m := range r.Moves {
		if m.Status != MoveMoved {
			keys = append(keys, m.From)
		}
	}
	return keys
}

func (r *RenameResult) Moved() int {
	n := 0
	for _, m := range r.Moves {
		if m.Status == MoveMoved {
			n++
		}
	}
	return n
}

type AccessGrant struct {
	Key       string
	Method    string
	URL       string
	ExpiresAt time.Time
	// Headers must be sent verbatim with the request for the signature to hold
	Headers map[string]string
}

func failedKeys(failures []KeyFailure) []string {
	keys := make([]string, len(failures))
	for i, f := range failures {
		keys[i] = f.Key
	}
	return keys
}

func outcomeOf(failed int) Outcome {
	if failed == 0 {
		return OutcomeSuccess
	}
	return OutcomePartialFailure
}
