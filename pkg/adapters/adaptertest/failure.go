package adaptertest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

// CodecFactory returns a new, empty adapter that stores payloads with c.
type CodecFactory func(t *testing.T, c codec.Codec) core.Adapter

var errUndecodable = errors.New("payload rejected")

// rejectingCodec writes JSON but refuses to decode anything, which is how a
// corrupt payload looks to an adapter.
type rejectingCodec struct {
	codec.Codec
}

func (rejectingCodec) Decode([]byte) (core.Document, error) {
	return nil, errUndecodable
}

// RunDecodeFailures checks that a stored payload the codec rejects surfaces
// as an error from Has, Read and ReadAll, and is never mistaken for NotFound.
func RunDecodeFailures(t *testing.T, name string, factory CodecFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("HasReRaises", func(t *testing.T) {
			ctx := context.Background()
			a := factory(t, rejectingCodec{codec.Default()})
			require.NoError(t, a.Write(ctx, "collection", "broken", Payload("broken")))

			has, err := a.Has(ctx, "collection", "broken")
			require.ErrorIs(t, err, errUndecodable)
			assert.False(t, core.IsNotFound(err))
			assert.False(t, has)

			has, err = a.Has(ctx, "collection", "ghost")
			require.NoError(t, err)
			assert.False(t, has)
		})

		t.Run("ReadReRaises", func(t *testing.T) {
			ctx := context.Background()
			a := factory(t, rejectingCodec{codec.Default()})
			require.NoError(t, a.Write(ctx, "collection", "broken", Payload("broken")))

			_, err := a.Read(ctx, "collection", "broken")
			require.ErrorIs(t, err, errUndecodable)
			assert.False(t, core.IsNotFound(err))
		})

		t.Run("ReadAllReRaises", func(t *testing.T) {
			ctx := context.Background()
			a := factory(t, rejectingCodec{codec.Default()})
			require.NoError(t, a.Write(ctx, "collection", "broken", Payload("broken")))

			var errs []error
			for _, err := range a.ReadAll(ctx, "collection") {
				if err != nil {
					errs = append(errs, err)
				}
			}
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], errUndecodable)
			assert.False(t, core.IsNotFound(errs[0]))
		})
	})
}

// AssertUnavailable checks an adapter whose backend can no longer be read.
// ReadAll must yield a single *NotFoundError with an empty ID for collection,
// while CollectionNames yields nothing and does not fail.
func AssertUnavailable(t *testing.T, a core.Adapter, collection string) {
	t.Helper()
	ctx := context.Background()

	var records []core.Record
	var errs []error
	for rec, err := range a.ReadAll(ctx, collection) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, rec)
	}
	assert.Empty(t, records)
	require.Len(t, errs, 1)

	var nf *core.NotFoundError
	require.ErrorAs(t, errs[0], &nf)
	assert.Equal(t, collection, nf.Collection)
	assert.Empty(t, nf.ID)
	assert.Error(t, nf.Err, "the scan failure must be kept as the cause")

	var names []string
	for name := range a.CollectionNames(ctx) {
		names = append(names, name)
	}
	assert.Empty(t, names)
}
