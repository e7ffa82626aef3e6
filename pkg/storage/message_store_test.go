package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/radiomodel"
)

func newTestStore(t *testing.T) *Store {
	tempDir, err := os.MkdirTemp("", "ftx1hamlibd-storage-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreCreatesNestedDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "ftx1hamlibd-storage-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	store, err := New(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestSaveAndLoadChannel(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveChannel(1, 14074000, radiomodel.ModeUSB))

	freq, mode, err := store.LoadChannel(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(14074000), freq)
	assert.Equal(t, radiomodel.ModeUSB, mode)
}

func TestLoadChannelNotSet(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.LoadChannel(99)
	assert.Error(t, err)
}

func TestSaveChannelOverwritesExisting(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveChannel(1, 14074000, radiomodel.ModeUSB))
	require.NoError(t, store.SaveChannel(1, 7074000, radiomodel.ModeLSB))

	freq, mode, err := store.LoadChannel(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(7074000), freq)
	assert.Equal(t, radiomodel.ModeLSB, mode)
}

func TestLogSessionEvent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.LogSessionEvent("rigctl_connect", "127.0.0.1:52344"))
	require.NoError(t, store.LogSessionEvent("head_detected", "Field/12V"))

	count, err := store.SessionEventCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
