// Package tmpfile issues collision-free scratch paths and guarantees their
// best-effort removal once a request is done with them.
package tmpfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager hands out unique paths inside a single scratch directory.
// Every path it issues is owned by exactly one request and must be given
// back through Release when that request finishes.
type Manager struct {
	dir    string
	logger *zap.Logger
}

// NewManager creates the scratch directory if it does not exist yet and
// returns a manager rooted there.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", dir, err)
	}

	return &Manager{dir: dir, logger: logger}, nil
}

// Dir returns the scratch directory the manager is rooted at.
func (m *Manager) Dir() string {
	return m.dir
}

// NewPath returns a fresh path inside the scratch directory. The filename
// is a random 128-bit token, so concurrent requests cannot collide.
// The file itself is not created.
func (m *Manager) NewPath(ext string) string {
	return filepath.Join(m.dir, uuid.New().String()+ext)
}

// Release deletes each given path. Missing files are fine; any other
// deletion failure is logged at warn level and swallowed, because cleanup
// must never override the outcome of the request that owned the file.
func (m *Manager) Release(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove temp file",
				zap.String("path", p),
				zap.Error(err),
			)
		}
	}
}
