package accesslog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// actorLogWriter appends JSON lines to one actor's current log file and rotates it by size
type actorLogWriter struct {
	mu          sync.Mutex
	dir         string
	file        *os.File
	currentFile string
	currentSize int64
	maxSize     int64
	maxFiles    int
	now         func() time.Time
}

func (w *actorLogWriter) open() error {
	path := filepath.Join(w.dir, fmt.Sprintf("access_%s.log", w.now().Format("20060102")))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, LogFilePermission)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = file
	w.currentFile = path
	w.currentSize = stat.Size()
	return nil
}

func (w *actorLogWriter) write(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	data = append(data, '\n')

	if w.currentSize > 0 && w.currentSize+int64(len(data)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return fmt.Errorf("rotate: %w", err)
		}
	}

	n, err := w.file.Write(data)
	w.currentSize += int64(n)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

func (w *actorLogWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}

	rotated := filepath.Join(w.dir, fmt.Sprintf("access_%s.log", w.now().Format("20060102.150405.000000")))
	if err := os.Rename(w.currentFile, rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}
	if err := w.prune(); err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	return w.open()
}

// prune keeps the newest maxFiles rotated files
func (w *actorLogWriter) prune() error {
	files, err := logFiles(w.dir)
	if err != nil {
		return err
	}
	for len(files) > w.maxFiles {
		if err := os.Remove(filepath.Join(w.dir, files[0])); err != nil {
			return err
		}
		files = files[1:]
	}
	return nil
}

func (w *actorLogWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// logFiles lists the .log files in dir, oldest first. Rotated names sort before the live file of the same day.
func logFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
