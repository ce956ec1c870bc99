// Package redis stores each collection as one Redis hash.
//
//	<prefix>:c:<norm(collection)>   hash  id -> encoded payload
//	<prefix>:collections            set   collection names
package redis

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

// DefaultPrefix namespaces every key written by the adapter.
const DefaultPrefix = "docstore"

const scanCount = 100

// Config holds the configuration for the Redis adapter.
type Config struct {
	// URL is a redis:// or rediss:// address. Ignored when Client is set.
	URL string
	// Client is used as-is and is not closed by the adapter.
	Client     *redis.Client
	Prefix     string
	Codec      codec.Codec
	Normalizer normalize.Normalizer
	Logger     *slog.Logger
}

// Adapter implements core.Adapter on Redis hashes.
type Adapter struct {
	client     *redis.Client
	owned      bool
	prefix     string
	codec      codec.Codec
	normalizer normalize.Normalizer
	logger     *slog.Logger
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, config Config) (*Adapter, error) {
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Codec == nil {
		config.Codec = codec.Default()
	}
	if config.Normalizer == nil {
		config.Normalizer = normalize.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	client, owned := config.Client, false
	if client == nil {
		opts, err := redis.ParseURL(config.URL)
		if err != nil {
			return nil, fmt.Errorf("redis adapter: parse url: %w", err)
		}
		client, owned = redis.NewClient(opts), true
	}
	if err := client.Ping(ctx).Err(); err != nil {
		if owned {
			client.Close()
		}
		return nil, fmt.Errorf("redis adapter: ping: %w", err)
	}

	return &Adapter{
		client:     client,
		owned:      owned,
		prefix:     config.Prefix,
		codec:      config.Codec,
		normalizer: config.Normalizer,
		logger:     config.Logger,
	}, nil
}

// Close closes the client when the adapter created it.
func (a *Adapter) Close() error {
	if !a.owned {
		return nil
	}
	return a.client.Close()
}

func (a *Adapter) collectionKey(collection string) string {
	return fmt.Sprintf("%s:c:%s", a.prefix, a.normalizer.Normalize(collection))
}

func (a *Adapter) collectionsKey() string {
	return fmt.Sprintf("%s:collections", a.prefix)
}

func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	_, err = a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, a.collectionKey(collection), id, payload)
		pipe.SAdd(ctx, a.collectionsKey(), collection)
		return nil
	})
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.logger.Debug("document written", "collection", collection, "id", id)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	payload, err := a.client.HGet(ctx, a.collectionKey(collection), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.NewNotFoundError(collection, id, nil)
		}
		return nil, core.NewNotFoundError(collection, id, err)
	}
	doc, err := a.codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	if err := a.client.HDel(ctx, a.collectionKey(collection), id).Err(); err != nil {
		return core.NewDeleteFailedError(collection, id, err)
	}
	return nil
}

// ReadAll pages through the hash with HSCAN. Fields reported twice by the
// server during a rehash are yielded once.
func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		key := a.collectionKey(collection)
		seen := make(map[string]struct{})
		var cursor uint64
		for {
			page, next, err := a.client.HScan(ctx, key, cursor, "*", scanCount).Result()
			if err != nil {
				yield(core.Record{}, core.NewNotFoundError(collection, "", err))
				return
			}
			for i := 0; i+1 < len(page); i += 2 {
				id, payload := page[i], page[i+1]
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				doc, err := a.codec.Decode([]byte(payload))
				if err != nil {
					yield(core.Record{}, fmt.Errorf("decode %s/%s: %w", collection, id, err))
					return
				}
				if !yield(core.Record{ID: id, Data: doc}, nil) {
					return
				}
			}
			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{})
		var cursor uint64
		for {
			names, next, err := a.client.SScan(ctx, a.collectionsKey(), cursor, "*", scanCount).Result()
			if err != nil {
				a.logger.Debug("listing collections failed", "error", err)
				return
			}
			for _, name := range names {
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				if !yield(name) {
					return
				}
			}
			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "redis"
}

var _ core.Adapter = (*Adapter)(nil)
