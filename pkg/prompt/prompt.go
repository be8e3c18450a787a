// Package prompt supplies the system instruction sent with every
// language-model request. When backed by a file, edits to that file take
// effect on the next turn without a restart.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Default is the built-in instruction used when no prompt file is configured.
const Default = "You are a friendly voice assistant. Answer briefly and conversationally; your replies are read aloud."

// Source holds the current system instruction.
type Source struct {
	mu      sync.RWMutex
	text    string
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewSource creates a prompt source. With an empty path it serves the
// built-in Default. With a path it reads the file once and then watches
// it for changes; watch setup failures degrade to the initial read.
func NewSource(path string, logger *zap.Logger) (*Source, error) {
	if path == "" {
		return &Source{text: Default, logger: logger}, nil
	}

	// Cleaned so events from the watcher, which reports cleaned names,
	// match configured paths like "./persona.txt".
	s := &Source{text: Default, path: filepath.Clean(path), logger: logger}

	if err := s.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("prompt file watching disabled", zap.Error(err))
		return s, nil
	}

	// Watch the directory rather than the file: editors typically replace
	// the file on save, which would drop a direct watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("prompt file watching disabled", zap.Error(err))
		watcher.Close()
		return s, nil
	}

	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Text returns the current system instruction.
func (s *Source) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.text
}

// Close stops watching the prompt file.
func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}

	return s.watcher.Close()
}

func (s *Source) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read prompt file %s: %w", s.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		text = Default
	}

	s.mu.Lock()
	s.text = text
	s.mu.Unlock()

	return nil
}

func (s *Source) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.reload(); err != nil {
				s.logger.Warn("failed to reload prompt file", zap.Error(err))
				continue
			}
			s.logger.Info("system prompt reloaded", zap.String("path", s.path))
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("prompt watcher error", zap.Error(err))
		}
	}
}
