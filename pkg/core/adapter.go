package core

import (
	"context"
	"iter"
)

// Adapter is the single extension point of docstore. Each storage backend
// (filesystem, memory, SQL, object store) implements it, and nothing more is
// assumed about the backend.
//
// Adapters keep no cache of documents: the wrapped backend is the source of
// truth. Enumerations carry no ordering guarantee unless the backend documents one.
type Adapter interface {
	// Has reports whether a document exists. NotFound is (false, nil); any
	// other Read failure, such as an undecodable payload, is returned.
	Has(ctx context.Context, collection, id string) (bool, error)

	// Write creates or overwrites a document. Failures are *WriteFailedError.
	Write(ctx context.Context, collection, id string, data Document) error

	// Read loads a document. Missing or unreadable documents are *NotFoundError.
	Read(ctx context.Context, collection, id string) (Document, error)

	// Delete removes a document. Deleting an absent document succeeds.
	// Failures are *DeleteFailedError.
	Delete(ctx context.Context, collection, id string) error

	// ReadAll lazily enumerates every document of a collection as of the call.
	// A missing collection yields nothing. A scan failure yields a single
	// *NotFoundError with an empty ID and ends the sequence.
	ReadAll(ctx context.Context, collection string) iter.Seq2[Record, error]

	// CollectionNames lazily enumerates the collections known to the backend.
	// Enumeration failures end the sequence silently.
	CollectionNames(ctx context.Context) iter.Seq[string]
}

// Watchable is implemented by adapters that can report changes as they happen.
type Watchable interface {
	// Watch emits events until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Exists derives a Has result from a Read result. Adapters implement Has as
//
//	return core.Exists(a.Read(ctx, collection, id))
func Exists(_ Document, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
