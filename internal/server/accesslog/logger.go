// Package accesslog keeps a per-actor JSON-lines record of gateway calls under the server's log directory.
package accesslog

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type AccessLogger struct {
	baseDir  string
	maxSize  int64
	maxFiles int
	now      func() time.Time

	mu      sync.Mutex
	writers map[string]*actorLogWriter
	logger  *slog.Logger
}

type Option func(*AccessLogger)

// WithRotation overrides the per-file size limit and the number of files kept per actor
func WithRotation(maxSize int64, maxFiles int) Option {
	return func(al *AccessLogger) {
		al.maxSize = maxSize
		al.maxFiles = maxFiles
	}
}

func WithClock(now func() time.Time) Option {
	return func(al *AccessLogger) {
		al.now = now
	}
}

func New(baseDir string, logger *slog.Logger, opts ...Option) (*AccessLogger, error) {
	if err := os.MkdirAll(baseDir, LogDirPermission); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	al := &AccessLogger{
		baseDir:  baseDir,
		maxSize:  DefaultMaxLogSize,
		maxFiles: DefaultMaxLogFiles,
		now:      time.Now,
		writers:  make(map[string]*actorLogWriter),
		logger:   logger.With("component", "access_logger"),
	}
	for _, opt := range opts {
		opt(al)
	}
	return al, nil
}

// Log appends entry to its actor's log. Failures are logged, never returned to the request.
func (al *AccessLogger) Log(entry Entry) {
	if entry.Actor == "" {
		entry.Actor = anonymous
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = al.now().UTC()
	}

	w, err := al.writer(entry.Actor)
	if err == nil {
		err = w.write(entry)
	}
	if err != nil {
		al.logger.Error("access log write", "actor", entry.Actor, "route", entry.Route, "error", err)
	}
}

func (al *AccessLogger) writer(actor string) (*actorLogWriter, error) {
	al.mu.Lock()
	defer al.mu.Unlock()

	if w, ok := al.writers[actor]; ok {
		return w, nil
	}

	dir := filepath.Join(al.baseDir, sanitizeActor(actor))
	if err := os.MkdirAll(dir, LogDirPermission); err != nil {
		return nil, fmt.Errorf("create actor log directory: %w", err)
	}

	w := &actorLogWriter{dir: dir, maxSize: al.maxSize, maxFiles: al.maxFiles, now: al.now}
	if err := w.open(); err != nil {
		return nil, err
	}
	al.writers[actor] = w
	return w, nil
}

// Recent returns up to limit of the actor's newest entries, oldest first
func (al *AccessLogger) Recent(actor string, limit int) ([]Entry, error) {
	dir := filepath.Join(al.baseDir, sanitizeActor(actor))
	files, err := logFiles(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, limit)
	for i := len(files) - 1; i >= 0 && len(entries) < limit; i-- {
		fileEntries, err := readEntries(filepath.Join(dir, files[i]))
		if err != nil {
			al.logger.Warn("access log read", "file", files[i], "error", err)
			continue
		}
		entries = append(fileEntries, entries...)
	}

	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (al *AccessLogger) Close() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	var errs []error
	for _, w := range al.writers {
		errs = append(errs, w.close())
	}
	return errors.Join(errs...)
}

func readEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e Entry
		// a torn line from a crash is skipped
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}

// sanitizeActor maps an actor name onto a safe directory name
func sanitizeActor(actor string) string {
	out := []byte(actor)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '@', c == '.', c == '-', c == '_':
		default:
			out[i] = '_'
		}
	}
	if s := string(out); s != "" && s != "." && s != ".." {
		return s
	}
	return anonymous
}
