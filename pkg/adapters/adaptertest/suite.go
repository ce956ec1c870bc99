// Package adaptertest is a conformance suite every core.Adapter must pass.
// Backend packages call Run (and RunSynchronizer) from their own tests with a
// factory producing a fresh, empty store.
package adaptertest

import (
	"context"
	"errors"
	"iter"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/core"
)

// Factory returns a new, empty adapter. Cleanup should be registered on t.
type Factory func(t *testing.T) core.Adapter

// Run executes the adapter contract tests.
func Run(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("WriteRead", func(t *testing.T) { testWriteRead(t, factory(t)) })
		t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory(t)) })
		t.Run("ReadMissing", func(t *testing.T) { testReadMissing(t, factory(t)) })
		t.Run("HasToggles", func(t *testing.T) { testHasToggles(t, factory(t)) })
		t.Run("DeleteMissing", func(t *testing.T) { testDeleteMissing(t, factory(t)) })
		t.Run("ReadAll", func(t *testing.T) { testReadAll(t, factory(t)) })
		t.Run("ReadAllEmpty", func(t *testing.T) { testReadAllEmpty(t, factory(t)) })
		t.Run("ReadAllBreak", func(t *testing.T) { testReadAllBreak(t, factory(t)) })
		t.Run("CollectionNames", func(t *testing.T) { testCollectionNames(t, factory(t)) })
		t.Run("CollectionScope", func(t *testing.T) { testCollectionScope(t, factory(t)) })
		t.Run("AwkwardKeys", func(t *testing.T) { testAwkwardKeys(t, factory(t)) })
		t.Run("IntegerIDs", func(t *testing.T) { testIntegerIDs(t, factory(t)) })
	})
}

// Payload builds a document that survives every bundled codec unchanged.
func Payload(title string) core.Document {
	return core.Document{
		"title":  title,
		"done":   false,
		"score":  1.5,
		"tags":   []any{"x", "y"},
		"nested": map[string]any{"owner": title},
	}
}

// IDs drains a collection enumeration and returns the sorted IDs.
func IDs(t *testing.T, seq iter.Seq2[core.Record, error]) []string {
	t.Helper()
	ids := []string{}
	for rec, err := range seq {
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	sort.Strings(ids)
	return ids
}

// Records drains a collection enumeration into a map keyed by ID.
func Records(t *testing.T, seq iter.Seq2[core.Record, error]) map[string]core.Document {
	t.Helper()
	out := make(map[string]core.Document)
	for rec, err := range seq {
		require.NoError(t, err)
		out[rec.ID] = rec.Data
	}
	return out
}

func testWriteRead(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "collection", "key", Payload("value")))

	doc, err := a.Read(ctx, "collection", "key")
	require.NoError(t, err)
	assert.Equal(t, Payload("value"), doc)
}

func testOverwrite(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "collection", "key", Payload("first")))
	require.NoError(t, a.Write(ctx, "collection", "key", Payload("second")))

	doc, err := a.Read(ctx, "collection", "key")
	require.NoError(t, err)
	assert.Equal(t, Payload("second"), doc)
}

func testReadMissing(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	_, err := a.Read(ctx, "collection", "ghost")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err), "expected NotFound, got %v", err)

	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "collection", nf.Collection)
	assert.Equal(t, "ghost", nf.ID)

	require.NoError(t, a.Write(ctx, "collection", "gone", Payload("gone")))
	require.NoError(t, a.Delete(ctx, "collection", "gone"))

	_, err = a.Read(ctx, "collection", "gone")
	assert.True(t, core.IsNotFound(err), "expected NotFound after delete, got %v", err)
}

func testHasToggles(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	has, err := a.Has(ctx, "collection", "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, a.Write(ctx, "collection", "key", Payload("value")))
	has, err = a.Has(ctx, "collection", "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, a.Delete(ctx, "collection", "key"))
	has, err = a.Has(ctx, "collection", "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func testDeleteMissing(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	assert.NoError(t, a.Delete(ctx, "never-created", "ghost"))

	require.NoError(t, a.Write(ctx, "collection", "key", Payload("value")))
	assert.NoError(t, a.Delete(ctx, "collection", "ghost"))

	has, err := a.Has(ctx, "collection", "key")
	require.NoError(t, err)
	assert.True(t, has, "deleting another id must not affect existing documents")
}

func testReadAll(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "collection", "key", Payload("stale")))
	require.NoError(t, a.Write(ctx, "collection", "key", Payload("value")))
	require.NoError(t, a.Write(ctx, "collection", "key2", Payload("value2")))
	require.NoError(t, a.Write(ctx, "collection", "key3", Payload("value3")))
	require.NoError(t, a.Delete(ctx, "collection", "key3"))
	require.NoError(t, a.Write(ctx, "other", "key4", Payload("value4")))

	docs := Records(t, a.ReadAll(ctx, "collection"))
	assert.Equal(t, map[string]core.Document{
		"key":  Payload("value"),
		"key2": Payload("value2"),
	}, docs)

	// Sequences are restartable by calling again.
	assert.Equal(t, []string{"key", "key2"}, IDs(t, a.ReadAll(ctx, "collection")))
}

func testReadAllEmpty(t *testing.T, a core.Adapter) {
	ctx := context.Background()
	assert.Empty(t, IDs(t, a.ReadAll(ctx, "collection")))
}

func testReadAllBreak(t *testing.T, a core.Adapter) {
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, a.Write(ctx, "collection", id, Payload(id)))
	}

	count := 0
	for _, err := range a.ReadAll(ctx, "collection") {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func testCollectionNames(t *testing.T, a core.Adapter) {
	ctx := context.Background()
	for _, c := range []string{"collection1", "collection2", "collection3"} {
		require.NoError(t, a.Write(ctx, c, "key", Payload(c)))
	}

	var names []string
	for name := range a.CollectionNames(ctx) {
		names = append(names, name)
	}
	assert.Subset(t, names, []string{"collection1", "collection2", "collection3"})
}

func testCollectionScope(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "left", "shared", Payload("left")))
	require.NoError(t, a.Write(ctx, "right", "shared", Payload("right")))

	left, err := a.Read(ctx, "left", "shared")
	require.NoError(t, err)
	assert.Equal(t, Payload("left"), left)

	require.NoError(t, a.Delete(ctx, "left", "shared"))

	right, err := a.Read(ctx, "right", "shared")
	require.NoError(t, err)
	assert.Equal(t, Payload("right"), right)
}

func testAwkwardKeys(t *testing.T, a core.Adapter) {
	ctx := context.Background()
	collection := "odd collection/name"
	ids := []string{"a/b", "..", ".hidden", "with space", "ümlaut", "100%", "x.db.json"}

	for _, id := range ids {
		require.NoError(t, a.Write(ctx, collection, id, Payload(id)), "write %q", id)
	}
	for _, id := range ids {
		doc, err := a.Read(ctx, collection, id)
		require.NoError(t, err, "read %q", id)
		assert.Equal(t, Payload(id), doc)
	}

	want := append([]string(nil), ids...)
	sort.Strings(want)
	assert.Equal(t, want, IDs(t, a.ReadAll(ctx, collection)))

	var names []string
	for name := range a.CollectionNames(ctx) {
		names = append(names, name)
	}
	assert.Contains(t, names, collection)
}

func testIntegerIDs(t *testing.T, a core.Adapter) {
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, "numbers", core.FormatID(1), Payload("one")))

	doc, err := a.Read(ctx, "numbers", core.FormatID("1"))
	require.NoError(t, err)
	assert.Equal(t, Payload("one"), doc)
}
