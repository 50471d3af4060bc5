package storage

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := []byte("RIFF fake audio payload")
	name, err := ls.Save(bytes.NewReader(content), "recording.wav")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".wav"))
	assert.NotContains(t, name, "recording") // original name is not reused

	f, err := ls.Open(name)
	require.NoError(t, err)
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, content, got)

	require.NoError(t, ls.Delete(name))
	_, err = ls.Open(name)
	assert.Error(t, err)
}

func TestLocalStorageDefaultExtension(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := ls.Save(bytes.NewReader([]byte("x")), "noext")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".wav"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Open("../etc/passwd")
	assert.Error(t, err)
	err = ls.Delete("../../secret")
	assert.Error(t, err)
	_, err = ls.Open("/etc/passwd")
	assert.Error(t, err)
}

func TestNewLocalStorageCreatesDirectory(t *testing.T) {
	base := t.TempDir() + "/nested/uploads"
	_, err := NewLocalStorage(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
