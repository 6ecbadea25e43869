package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV(t *testing.T) {
	kvContract{
		newKV: func(t *testing.T) port.KVStore {
			kv, err := repository.NewFileKV(t.TempDir())
			require.NoError(t, err)
			return kv
		},
		concurrentUpdates: true,
	}.run(t)
}

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := t.Context()

	first, err := repository.NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cart", []byte(`[]`)))
	require.NoError(t, first.Close())

	second, err := repository.NewFileKV(dir)
	require.NoError(t, err)

	got, err := second.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "cart.json", entries[0].Name())
}

func TestFileKV_Errors(t *testing.T) {
	_, err := repository.NewFileKV("")
	require.EqualError(t, err, "dir is empty")

	kv, err := repository.NewFileKV(filepath.Join(t.TempDir(), "nested", "dir"))
	require.NoError(t, err)

	err = kv.Set(t.Context(), "../escape", []byte("x"))
	require.EqualError(t, err, "key[../escape] is not valid")
}
