package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExclusive(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "ocl.lock")

	require.NoError(t, fs.CreateExclusive(path, []byte("first"), 0o600))

	err := fs.CreateExclusive(path, []byte("second"), 0o600)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrExist))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCreateExclusive_MissingDirectory(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "missing", "ocl.lock")

	err := fs.CreateExclusive(path, []byte("data"), 0o600)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrExist))
}
