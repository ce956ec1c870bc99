package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/adapters/adaptertest"
	"github.com/aretw0/docstore/pkg/adapters/sqlite"
	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

func open(t *testing.T, cfg sqlite.Config) *sqlite.Adapter {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "store.db")
	}
	a, err := sqlite.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestAdapter(t *testing.T) {
	adaptertest.Run(t, "SQLite", func(t *testing.T) core.Adapter {
		return open(t, sqlite.Config{})
	})
	adaptertest.Run(t, "SQLiteBSON", func(t *testing.T) core.Adapter {
		return open(t, sqlite.Config{Codec: codec.NewBSON()})
	})
}

func TestSynchronizer(t *testing.T) {
	adaptertest.RunSynchronizer(t, "SQLite", func(t *testing.T) core.Adapter {
		return open(t, sqlite.Config{})
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	a, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, a.Write(ctx, "c", "k", adaptertest.Payload("kept")))
	require.NoError(t, a.Close())

	b := open(t, sqlite.Config{Path: path})
	doc, err := b.Read(ctx, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, adaptertest.Payload("kept"), doc)
}

func TestRequiresPath(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{})
	assert.Error(t, err)
}

func TestDecodeFailures(t *testing.T) {
	adaptertest.RunDecodeFailures(t, "SQLite", func(t *testing.T, c codec.Codec) core.Adapter {
		return open(t, sqlite.Config{Codec: c})
	})
}

func TestClosedDatabase(t *testing.T) {
	ctx := context.Background()
	a, err := sqlite.Open(sqlite.Config{Path: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	require.NoError(t, a.Write(ctx, "c", "1", adaptertest.Payload("1")))
	require.NoError(t, a.Close())

	adaptertest.AssertUnavailable(t, a, "c")
}
