package badger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/adapters/adaptertest"
	"github.com/aretw0/docstore/pkg/adapters/badger"
	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

func open(t *testing.T, cfg badger.Config) *badger.Adapter {
	t.Helper()
	a, err := badger.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter(t *testing.T) {
	adaptertest.Run(t, "BadgerInMemory", func(t *testing.T) core.Adapter {
		return open(t, badger.Config{})
	})
	adaptertest.Run(t, "BadgerDisk", func(t *testing.T) core.Adapter {
		return open(t, badger.Config{Path: t.TempDir()})
	})
}

func TestSynchronizer(t *testing.T) {
	adaptertest.RunSynchronizer(t, "Badger", func(t *testing.T) core.Adapter {
		return open(t, badger.Config{})
	})
}

func TestPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := open(t, badger.Config{})

	// "ab" must not leak into "a" even though its keys share a byte prefix
	require.NoError(t, a.Write(ctx, "a", "1", adaptertest.Payload("a1")))
	require.NoError(t, a.Write(ctx, "ab", "2", adaptertest.Payload("ab2")))

	assert.Equal(t, []string{"1"}, adaptertest.IDs(t, a.ReadAll(ctx, "a")))
	assert.Equal(t, []string{"2"}, adaptertest.IDs(t, a.ReadAll(ctx, "ab")))
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a, err := badger.Open(badger.Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, a.Write(ctx, "c", "k", adaptertest.Payload("kept")))
	require.NoError(t, a.Close())

	b := open(t, badger.Config{Path: dir})
	doc, err := b.Read(ctx, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, adaptertest.Payload("kept"), doc)
}

func TestDecodeFailures(t *testing.T) {
	adaptertest.RunDecodeFailures(t, "Badger", func(t *testing.T, c codec.Codec) core.Adapter {
		return open(t, badger.Config{Codec: c})
	})
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	a, err := badger.Open(badger.Config{Path: t.TempDir(), GCInterval: time.Hour})
	require.NoError(t, err)
	require.NoError(t, a.Write(ctx, "c", "1", adaptertest.Payload("1")))
	require.NoError(t, a.Close())

	adaptertest.AssertUnavailable(t, a, "c")
}

func TestCloseTwice(t *testing.T) {
	a, err := badger.Open(badger.Config{Path: t.TempDir(), GCInterval: time.Hour})
	require.NoError(t, err)
	m := core.NewDocumentManager(a)

	require.NoError(t, m.Close())
	assert.NotPanics(t, func() {
		assert.NoError(t, m.Close())
		assert.NoError(t, core.ReadOnly(a).(interface{ Close() error }).Close())
	})
}
