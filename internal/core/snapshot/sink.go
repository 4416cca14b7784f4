package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink stores state text at a well-known location.
type Sink interface {
	WriteState(path, text string) error
	ClearState(path string) error
}

// FileSink writes plain files. Writes overwrite in place and are not atomic.
type FileSink struct{}

// WriteState writes text to path, creating parent directories.
func (FileSink) WriteState(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// ClearState removes path; a missing file is not an error.
func (FileSink) ClearState(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}

// ReadState returns the file contents, or false when it does not exist.
func ReadState(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read state file: %w", err)
	}
	return string(data), true, nil
}

// MemorySink keeps state in memory for same-process readers.
type MemorySink struct {
	mu     sync.Mutex
	states map[string]string
	writes map[string]int
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		states: make(map[string]string),
		writes: make(map[string]int),
	}
}

// WriteState stores text under path.
func (sink *MemorySink) WriteState(path, text string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.states[path] = text
	sink.writes[path]++
	return nil
}

// ClearState forgets path.
func (sink *MemorySink) ClearState(path string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	delete(sink.states, path)
	return nil
}

// State returns the stored text for path.
func (sink *MemorySink) State(path string) (string, bool) {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	text, ok := sink.states[path]
	return text, ok
}

// Writes returns how many times path was written.
func (sink *MemorySink) Writes(path string) int {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return sink.writes[path]
}
