package trainer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substrbayes/nbclass/app/storage"
)

func TestFileUpdater_Append(t *testing.T) {
	file := filepath.Join(t.TempDir(), "samples.txt")
	upd := NewFileUpdater(file)

	require.NoError(t, upd.Append("HELLO"))
	require.NoError(t, upd.Append("hello")) // duplicate, case-insensitive
	require.NoError(t, upd.Append("multi\nline"))
	require.NoError(t, upd.Append(" WORLD "))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nmulti line\nWORLD\n", string(data))
}

func TestFileUpdater_Remove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(file, []byte("ONE\nTWO\nONE\nTHREE\n"), 0o600))
	upd := NewFileUpdater(file)

	require.NoError(t, upd.Remove("ONE"))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "TWO\nTHREE\n", string(data))

	err = upd.Remove("ONE")
	require.ErrorIs(t, err, storage.ErrSampleNotFound)
	assert.Contains(t, err.Error(), "samples.txt")

	err = NewFileUpdater(filepath.Join(t.TempDir(), "missing.txt")).Remove("ONE")
	assert.ErrorIs(t, err, storage.ErrSampleNotFound)
}

func TestFileUpdater_BadPath(t *testing.T) {
	upd := NewFileUpdater(filepath.Join(t.TempDir(), "no-such-dir", "samples.txt"))
	assert.Error(t, upd.Append("HELLO"))
}
