package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomicCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "nested", "ledger.json")
	require.NoError(t, WriteFileAtomic(path, []byte("{}"), 0o644))
	assert.FileExists(t, path)
}

func TestWriteFileAtomicUnwritableTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))

	err := WriteFileAtomic(target, []byte("data"), 0o644)
	assert.Error(t, err, "renaming over a non-empty directory fails")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		Balance int64    `json:"balance"`
		Rounds  []string `json:"rounds"`
	}
	path := filepath.Join(t.TempDir(), "doc.json")

	var missing doc
	found, err := ReadJSON(path, &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, WriteJSONAtomic(path, doc{Balance: 1250, Rounds: []string{"rnd_a"}}, 0o644))

	var got doc
	found, err = ReadJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Balance: 1250, Rounds: []string{"rnd_a"}}, got)
}

func TestReadJSONCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	found, err := ReadJSON(path, &v)
	assert.True(t, found)
	assert.ErrorContains(t, err, "failed to decode")
}
