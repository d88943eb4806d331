package accesslog

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

const (
	DefaultMaxLogSize  = 10 * 1024 * 1024 // 10MB
	DefaultMaxLogFiles = 5

	LogFilePermission = 0o600
	LogDirPermission  = 0o700

	timestampFormat = "2006-01-02 15:04:05.000 UTC"
	anonymous       = "anonymous"
)

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomePartial Outcome = "partial"
	OutcomeError   Outcome = "error"
)

// Entry is one gateway call as recorded in an actor's access log
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Route     string    `json:"route"`
	Method    string    `json:"method"`
	Target    string    `json:"target,omitempty"`
	Status    int       `json:"status"`
	Outcome   Outcome   `json:"outcome"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
}

type entryJSON struct {
	Timestamp string  `json:"timestamp"`
	Actor     string  `json:"actor"`
	Route     string  `json:"route"`
	Method    string  `json:"method"`
	Target    string  `json:"target,omitempty"`
	Status    int     `json:"status"`
	Outcome   Outcome `json:"outcome"`
	IP        string  `json:"ip"`
	UserAgent string  `json:"user_agent"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&entryJSON{
		Timestamp: e.Timestamp.UTC().Format(timestampFormat),
		Actor:     e.Actor,
		Route:     e.Route,
		Method:    e.Method,
		Target:    e.Target,
		Status:    e.Status,
		Outcome:   e.Outcome,
		IP:        e.IP,
		UserAgent: e.UserAgent,
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var aux entryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts, err := time.Parse(timestampFormat, aux.Timestamp)
	if err != nil {
		if ts, err = time.Parse(time.RFC3339, aux.Timestamp); err != nil {
			return fmt.Errorf("parse timestamp %q: %w", aux.Timestamp, err)
		}
	}

	*e = Entry{
		Timestamp: ts,
		Actor:     aux.Actor,
		Route:     aux.Route,
		Method:    aux.Method,
		Target:    aux.Target,
		Status:    aux.Status,
		Outcome:   aux.Outcome,
		IP:        aux.IP,
		UserAgent: aux.UserAgent,
	}
	return nil
}

// OutcomeOf classifies an HTTP status
func OutcomeOf(status int) Outcome {
	switch {
	case status == 207:
		return OutcomePartial
	case status >= 400:
		return OutcomeError
	default:
		return OutcomeOK
	}
}
