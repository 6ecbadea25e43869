package repository_test

import (
	"testing"

	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	kvContract{
		newKV:             func(*testing.T) port.KVStore { return repository.NewMemoryKV() },
		concurrentUpdates: true,
	}.run(t)
}

func TestMemoryKV_ValuesAreCopied(t *testing.T) {
	kv := repository.NewMemoryKV()
	ctx := t.Context()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
