package adaptertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/core"
)

// RunSynchronizer executes the replication tests with source and target
// managers built from factory.
func RunSynchronizer(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Propagation", func(t *testing.T) { testSyncPropagation(t, factory) })
		t.Run("DeleteGating", func(t *testing.T) { testSyncDeleteGating(t, factory) })
		t.Run("Scope", func(t *testing.T) { testSyncScope(t, factory) })
		t.Run("Idempotence", func(t *testing.T) { testSyncIdempotence(t, factory) })
		t.Run("Overwrite", func(t *testing.T) { testSyncOverwrite(t, factory) })
	})
}

func managers(t *testing.T, factory Factory) (*core.DocumentManager, *core.DocumentManager) {
	t.Helper()
	source := core.NewDocumentManager(factory(t))
	target := core.NewDocumentManager(factory(t))
	return source, target
}

func testSyncPropagation(t *testing.T, factory Factory) {
	ctx := context.Background()
	source, target := managers(t, factory)

	src := source.Collection("pest")
	require.NoError(t, src.WriteData(ctx, core.FormatID(1), Payload("pest1")))
	require.NoError(t, src.WriteData(ctx, core.FormatID(2), Payload("pest2")))

	has, err := target.Collection("pest").HasDocumentByID(ctx, "1")
	require.NoError(t, err)
	require.False(t, has)

	report, err := core.NewSynchronizer(source, target).Synchronize(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Written)
	assert.Equal(t, 0, report.Deleted)

	assert.Equal(t, map[string]core.Document{
		"1": Payload("pest1"),
		"2": Payload("pest2"),
	}, Records(t, target.Collection("pest").ReadAllDocuments(ctx)))

	// Source is left untouched.
	assert.Equal(t, []string{"1", "2"}, IDs(t, src.ReadAllDocuments(ctx)))
}

func testSyncDeleteGating(t *testing.T, factory Factory) {
	ctx := context.Background()
	source, target := managers(t, factory)

	require.NoError(t, source.Collection("pest").WriteData(ctx, "1", Payload("pest1")))
	require.NoError(t, target.Collection("pest").WriteData(ctx, "2", Payload("pest2")))

	sync := core.NewSynchronizer(source, target)

	_, err := sync.Synchronize(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, IDs(t, target.Collection("pest").ReadAllDocuments(ctx)))

	report, err := sync.Synchronize(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, []string{"1"}, IDs(t, target.Collection("pest").ReadAllDocuments(ctx)))
}

func testSyncScope(t *testing.T, factory Factory) {
	ctx := context.Background()
	source, target := managers(t, factory)

	require.NoError(t, source.Collection("shared").WriteData(ctx, "1", Payload("one")))
	require.NoError(t, target.Collection("target-only").WriteData(ctx, "keep", Payload("keep")))

	_, err := core.NewSynchronizer(source, target).Synchronize(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"keep"}, IDs(t, target.Collection("target-only").ReadAllDocuments(ctx)))
	assert.Equal(t, []string{"1"}, IDs(t, target.Collection("shared").ReadAllDocuments(ctx)))
}

func testSyncIdempotence(t *testing.T, factory Factory) {
	ctx := context.Background()
	source, target := managers(t, factory)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, source.Collection("c").WriteData(ctx, id, Payload(id)))
	}
	require.NoError(t, target.Collection("c").WriteData(ctx, "z", Payload("z")))

	sync := core.NewSynchronizer(source, target)

	_, err := sync.Synchronize(ctx, true)
	require.NoError(t, err)
	first := Records(t, target.Collection("c").ReadAllDocuments(ctx))

	report, err := sync.Synchronize(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Deleted)
	assert.Equal(t, first, Records(t, target.Collection("c").ReadAllDocuments(ctx)))
}

func testSyncOverwrite(t *testing.T, factory Factory) {
	ctx := context.Background()
	source, target := managers(t, factory)

	require.NoError(t, source.Collection("c").WriteData(ctx, "1", Payload("from-source")))
	require.NoError(t, target.Collection("c").WriteData(ctx, "1", Payload("newer-in-target")))

	_, err := core.NewSynchronizer(source, target).Synchronize(ctx, false)
	require.NoError(t, err)

	doc, err := target.Collection("c").ReadData(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, Payload("from-source"), doc)
}
