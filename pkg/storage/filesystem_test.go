package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("settings/console.json", []byte(`{"theme":"dark"}`))
	require.NoError(t, err)
	assert.Equal(t, "settings/console.json", name)

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(data))

	require.NoError(t, store.Delete(name))
	_, err = store.Read(name)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageDeleteMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("absent.json"))
}

func TestLocalStoragePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "fee-report.csv"), store.Path("fee-report.csv"))
	assert.Equal(t, "/var/tmp/report.pdf", store.Path("/var/tmp/report.pdf"))
}
