package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteAndRead(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, fm.WriteFile(path, []byte(`{"a":1}`), DefaultFileWriteOptions()))

	data, err := fm.ReadFile(path, DefaultFileReadOptions())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "atomic write must not leave temp files behind")
}

func TestFileManager_AtomicOverwrite(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, fm.WriteFile(path, []byte("first version, longer"), DefaultFileWriteOptions()))
	require.NoError(t, fm.WriteFile(path, []byte("second"), DefaultFileWriteOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileManager_ReadFileErrors(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := t.TempDir()

	_, err := fm.ReadFile(filepath.Join(dir, "missing"), DefaultFileReadOptions())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fm.ReadFile(dir, DefaultFileReadOptions())
	assert.Error(t, err)

	big := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0644))
	_, err = fm.ReadFile(big, FileReadOptions{MaxSize: 10})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestFileManager_EnsureDirectoryRejectsFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	err := fm.EnsureDirectory(path, 0755)
	assert.Error(t, err)
	assert.True(t, fm.FileExists(path))
	assert.False(t, fm.DirExists(path))
}

func TestFileManager_RemoveFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, fm.RemoveFile(path))
	assert.False(t, fm.FileExists(path))
	assert.NoError(t, fm.RemoveFile(path), "removing a missing file is a no-op")
}
