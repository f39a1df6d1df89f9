package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestScanRootFindsTranscripts(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "a.txt")
	b := touch(t, root, "nested/deep/b.txt")
	touch(t, root, "notes.md")
	touch(t, root, ".hidden/c.txt")

	files, err := ScanRoot(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
		assert.Positive(t, f.Mtime)
		assert.Equal(t, int64(1), f.Size)
	}
	assert.ElementsMatch(t, []string{a, b}, paths)
}

func TestScanRootMissing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanRootEmptyPath(t *testing.T) {
	files, err := ScanRoot("")
	require.NoError(t, err)
	assert.Empty(t, files)
}
