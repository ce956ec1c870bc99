// Package badger stores documents in an embedded Badger key-value store.
//
// Keys are "<norm(collection)>/<norm(id)>". The normalizer must escape '/'
// (the default one does) so the separator stays unambiguous.
package badger

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

const separator = '/'

// Config holds the configuration for the Badger adapter.
type Config struct {
	// Path is the data directory. Empty means an in-memory store.
	Path       string
	Codec      codec.Codec
	Normalizer normalize.Normalizer
	Logger     *slog.Logger
	// GCInterval enables periodic value log collection when positive.
	GCInterval time.Duration
}

// Adapter implements core.Adapter on Badger.
type Adapter struct {
	db         *badgerdb.DB
	codec      codec.Codec
	normalizer normalize.Normalizer
	logger     *slog.Logger
	stopGC     chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Open opens (or creates) the store.
func Open(config Config) (*Adapter, error) {
	if config.Codec == nil {
		config.Codec = codec.Default()
	}
	if config.Normalizer == nil {
		config.Normalizer = normalize.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	opts := badgerdb.DefaultOptions(config.Path).WithLogger(badgerLogger{config.Logger})
	if config.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger adapter: open %q: %w", config.Path, err)
	}

	a := &Adapter{
		db:         db,
		codec:      config.Codec,
		normalizer: config.Normalizer,
		logger:     config.Logger,
		stopGC:     make(chan struct{}),
	}
	if config.GCInterval > 0 && config.Path != "" {
		go a.runGC(config.GCInterval)
	}
	return a, nil
}

// Close stops background collection and closes the store. Later calls return
// the result of the first one.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		close(a.stopGC)
		a.closeErr = a.db.Close()
	})
	return a.closeErr
}

func (a *Adapter) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopGC:
			return
		case <-ticker.C:
			// collect until nothing is left to rewrite
			for a.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

func (a *Adapter) prefix(collection string) []byte {
	return append([]byte(a.normalizer.Normalize(collection)), separator)
}

func (a *Adapter) key(collection, id string) []byte {
	return append(a.prefix(collection), a.normalizer.Normalize(id)...)
}

func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	err = a.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(a.key(collection, id), payload)
	})
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.logger.Debug("document written", "collection", collection, "id", id)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	var payload []byte
	err := a.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(a.key(collection, id))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, core.NewNotFoundError(collection, id, err)
	}
	doc, err := a.codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	err := a.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(a.key(collection, id))
	})
	if err != nil {
		return core.NewDeleteFailedError(collection, id, err)
	}
	return nil
}

// ReadAll iterates a read snapshot taken when the sequence starts.
func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		prefix := a.prefix(collection)
		var failure error

		err := a.db.View(func(txn *badgerdb.Txn) error {
			opts := badgerdb.DefaultIteratorOptions
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				id, err := a.normalizer.Denormalize(string(item.Key()[len(prefix):]))
				if err != nil {
					continue
				}
				payload, err := item.ValueCopy(nil)
				if err != nil {
					failure = core.NewNotFoundError(collection, id, err)
					return nil
				}
				doc, err := a.codec.Decode(payload)
				if err != nil {
					failure = fmt.Errorf("decode %s/%s: %w", collection, id, err)
					return nil
				}
				if !yield(core.Record{ID: id, Data: doc}, nil) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			failure = core.NewNotFoundError(collection, "", err)
		}
		if failure != nil {
			yield(core.Record{}, failure)
		}
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		err := a.db.View(func(txn *badgerdb.Txn) error {
			opts := badgerdb.DefaultIteratorOptions
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()

			var last []byte
			for it.Rewind(); it.Valid(); it.Next() {
				key := it.Item().Key()
				i := bytes.IndexByte(key, separator)
				if i < 0 || bytes.Equal(key[:i], last) {
					continue
				}
				last = append(last[:0], key[:i]...)
				name, err := a.normalizer.Denormalize(string(last))
				if err != nil {
					continue
				}
				if !yield(name) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			a.logger.Debug("listing collections failed", "error", err)
		}
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "badger"
}

var _ core.Adapter = (*Adapter)(nil)
