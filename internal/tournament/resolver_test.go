package tournament

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestResolve(t *testing.T) {
	t.Run("explicit path is used verbatim", func(t *testing.T) {
		r := NewResolver(t.TempDir(), quietLogger())

		dir, err := r.Resolve("does/not/exist")
		require.NoError(t, err)
		assert.Equal(t, "does/not/exist", dir)
	})

	t.Run("picks lexicographically last tournament", func(t *testing.T) {
		logs := t.TempDir()
		for _, name := range []string{"Tournament 20240101", "Tournament 20240315", "Tournament 20231231"} {
			require.NoError(t, os.Mkdir(filepath.Join(logs, name), 0o755))
		}

		dir, err := NewResolver(logs, quietLogger()).Resolve("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(logs, "Tournament 20240315"), dir)
	})

	t.Run("ignores files and other prefixes", func(t *testing.T) {
		logs := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(logs, "Tournament 1"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(logs, "Zebra"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(logs, "Tournament 9.log"), []byte("x"), 0o644))

		dir, err := NewResolver(logs, quietLogger()).Resolve("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(logs, "Tournament 1"), dir)
	})

	t.Run("follows symlinked tournament directories", func(t *testing.T) {
		logs := t.TempDir()
		target := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(logs, "Tournament 1"), 0o755))
		if err := os.Symlink(target, filepath.Join(logs, "Tournament 2")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		dir, err := NewResolver(logs, quietLogger()).Resolve("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(logs, "Tournament 2"), dir)
	})

	t.Run("falls back to current directory when empty", func(t *testing.T) {
		dir, err := NewResolver(t.TempDir(), quietLogger()).Resolve("")
		require.NoError(t, err)
		assert.Equal(t, CurrentDir, dir)
	})

	t.Run("falls back to current directory when logs root is missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "Logs")

		dir, err := NewResolver(missing, quietLogger()).Resolve("")
		require.NoError(t, err)
		assert.Equal(t, CurrentDir, dir)
	})

	t.Run("custom prefix", func(t *testing.T) {
		logs := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(logs, "Tournament 1"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(logs, "Heat 1"), 0o755))

		r := NewResolver(logs, quietLogger())
		r.Prefix = "Heat"
		dir, err := r.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(logs, "Heat 1"), dir)
	})
}

func TestDefaultLogsDir(t *testing.T) {
	dir, err := DefaultLogsDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, LogsDirName, filepath.Base(dir))
}
