package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name:  "creates new directory",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "newdir") },
		},
		{
			name:  "creates nested directories",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "parent", "child", "nested") },
		},
		{
			name:  "succeeds when directory already exists",
			setup: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			path := testCase.setup(t)

			require.NoError(t, EnsureDir(path))
			assert.DirExists(t, path)
		})
	}
}

func TestEnsureDir_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}
	path := filepath.Join(t.TempDir(), "fresh")
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// umask can only remove bits
	assert.Zero(t, info.Mode().Perm()&^os.FileMode(DirModeDefault))
}

func TestEnsureFileDir(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "nested", "parent", "file.txt")

	require.NoError(t, EnsureFileDir(filePath))
	assert.DirExists(t, filepath.Dir(filePath))
	assert.NoFileExists(t, filePath)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), FileModeDefault))

	ok, err := IsDir(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsDir(file)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
