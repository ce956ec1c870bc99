package core

import (
	"context"
	"iter"
)

// readOnlyAdapter forwards reads and rejects every mutation with ErrReadOnly.
type readOnlyAdapter struct {
	inner Adapter
}

// ReadOnly wraps adapter so that Write and Delete always fail. The CLI opens
// synchronization sources this way.
func ReadOnly(adapter Adapter) Adapter {
	if _, ok := adapter.(*readOnlyAdapter); ok {
		return adapter
	}
	return &readOnlyAdapter{inner: adapter}
}

func (a *readOnlyAdapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return a.inner.Has(ctx, collection, id)
}

func (a *readOnlyAdapter) Write(ctx context.Context, collection, id string, data Document) error {
	return NewWriteFailedError(collection, id, ErrReadOnly)
}

func (a *readOnlyAdapter) Read(ctx context.Context, collection, id string) (Document, error) {
	return a.inner.Read(ctx, collection, id)
}

func (a *readOnlyAdapter) Delete(ctx context.Context, collection, id string) error {
	return NewDeleteFailedError(collection, id, ErrReadOnly)
}

func (a *readOnlyAdapter) ReadAll(ctx context.Context, collection string) iter.Seq2[Record, error] {
	return a.inner.ReadAll(ctx, collection)
}

func (a *readOnlyAdapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return a.inner.CollectionNames(ctx)
}

// Close closes the wrapped adapter when it holds resources.
func (a *readOnlyAdapter) Close() error {
	if c, ok := a.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Watch forwards to the wrapped adapter when it is Watchable.
func (a *readOnlyAdapter) Watch(ctx context.Context) (<-chan Event, error) {
	if w, ok := a.inner.(Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}
