package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	require.NoError(t, EnsureDir(dir), "idempotent")
	require.NoError(t, EnsureDir(""))
}

func TestWriteAtomic_ReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "data.json")

	require.NoError(t, WriteAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteAtomic(path, []byte("second"), 0o600))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestReadIfExists(t *testing.T) {
	dir := t.TempDir()

	b, found, err := ReadIfExists(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, b)

	path := filepath.Join(dir, "x.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	b, found, err = ReadIfExists(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "[]", string(b))
}
