// Package memory is the reference Adapter: documents live in process memory,
// encoded with the configured codec so callers never share mutable state with
// the store.
package memory

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

// Config holds the configuration for the memory adapter.
type Config struct {
	Codec  codec.Codec
	Logger *slog.Logger
}

// Adapter implements core.Adapter on concurrent maps.
type Adapter struct {
	codec       codec.Codec
	logger      *slog.Logger
	collections *xsync.MapOf[string, *xsync.MapOf[string, []byte]]
}

// New creates an empty memory adapter.
func New(config Config) *Adapter {
	if config.Codec == nil {
		config.Codec = codec.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		codec:       config.Codec,
		logger:      config.Logger,
		collections: xsync.NewMapOf[string, *xsync.MapOf[string, []byte]](),
	}
}

func (a *Adapter) collection(name string) *xsync.MapOf[string, []byte] {
	docs, _ := a.collections.LoadOrCompute(name, func() *xsync.MapOf[string, []byte] {
		return xsync.NewMapOf[string, []byte]()
	})
	return docs
}

// Has decodes the stored payload rather than only checking the key.
func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.collection(collection).Store(id, payload)
	a.logger.Debug("document stored", "collection", collection, "id", id)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	docs, ok := a.collections.Load(collection)
	if !ok {
		return nil, core.NewNotFoundError(collection, id, nil)
	}
	payload, ok := docs.Load(id)
	if !ok {
		return nil, core.NewNotFoundError(collection, id, nil)
	}
	doc, err := a.codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	if docs, ok := a.collections.Load(collection); ok {
		docs.Delete(id)
	}
	return nil
}

func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		docs, ok := a.collections.Load(collection)
		if !ok {
			return
		}
		docs.Range(func(id string, payload []byte) bool {
			doc, err := a.codec.Decode(payload)
			if err != nil {
				yield(core.Record{}, fmt.Errorf("decode %s/%s: %w", collection, id, err))
				return false
			}
			return yield(core.Record{ID: id, Data: doc}, nil)
		})
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		a.collections.Range(func(name string, _ *xsync.MapOf[string, []byte]) bool {
			return yield(name)
		})
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "memory"
}

var _ core.Adapter = (*Adapter)(nil)
