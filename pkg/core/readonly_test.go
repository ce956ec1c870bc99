package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/adapters/memory"
	"github.com/aretw0/docstore/pkg/core"
)

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	inner := memory.New(memory.Config{})
	require.NoError(t, inner.Write(ctx, "c", "1", core.Document{"v": "x"}))

	ro := core.ReadOnly(inner)

	t.Run("ReadsPassThrough", func(t *testing.T) {
		has, err := ro.Has(ctx, "c", "1")
		require.NoError(t, err)
		assert.True(t, has)

		doc, err := ro.Read(ctx, "c", "1")
		require.NoError(t, err)
		assert.Equal(t, "x", doc["v"])

		var names []string
		for name := range ro.CollectionNames(ctx) {
			names = append(names, name)
		}
		assert.Equal(t, []string{"c"}, names)
	})

	t.Run("WriteRejected", func(t *testing.T) {
		err := ro.Write(ctx, "c", "2", core.Document{})
		assert.ErrorIs(t, err, core.ErrWriteFailed)
		assert.ErrorIs(t, err, core.ErrReadOnly)

		has, err := inner.Has(ctx, "c", "2")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("DeleteRejected", func(t *testing.T) {
		err := ro.Delete(ctx, "c", "1")
		assert.ErrorIs(t, err, core.ErrDeleteFailed)
		assert.ErrorIs(t, err, core.ErrReadOnly)

		has, err := inner.Has(ctx, "c", "1")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("Idempotent", func(t *testing.T) {
		assert.Same(t, ro, core.ReadOnly(ro))
	})

	t.Run("WatchUnsupported", func(t *testing.T) {
		w, ok := ro.(core.Watchable)
		require.True(t, ok)
		_, err := w.Watch(ctx)
		assert.ErrorIs(t, err, core.ErrNotWatchable)
	})
}

func TestReadOnlySourceSynchronizes(t *testing.T) {
	ctx := context.Background()
	inner := memory.New(memory.Config{})
	require.NoError(t, inner.Write(ctx, "c", "1", core.Document{"v": "x"}))

	source := core.NewDocumentManager(core.ReadOnly(inner))
	target := core.NewDocumentManager(memory.New(memory.Config{}))

	report, err := core.NewSynchronizer(source, target).Synchronize(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
}
