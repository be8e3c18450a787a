package tmpfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "scratch"), zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestNewManagerCreatesScratchDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	m, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(m.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewPathUniqueAndInsideScratchDir(t *testing.T) {
	m := testManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p := m.NewPath(".wav")
		assert.False(t, seen[p], "duplicate path issued: %s", p)
		seen[p] = true

		assert.Equal(t, m.Dir(), filepath.Dir(p))
		assert.True(t, strings.HasSuffix(p, ".wav"))
	}
}

func TestReleaseDeletesFiles(t *testing.T) {
	m := testManager(t)

	p1 := m.NewPath(".webm")
	p2 := m.NewPath(".wav")
	require.NoError(t, os.WriteFile(p1, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte("b"), 0o644))

	m.Release(p1, p2)

	_, err := os.Stat(p1)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(p2)
	assert.True(t, os.IsNotExist(err))
}

func TestReleaseIgnoresMissingFiles(t *testing.T) {
	m := testManager(t)

	// Never created, already gone, and empty path: none of these may panic.
	p := m.NewPath(".wav")
	m.Release(p, p, "")
}
