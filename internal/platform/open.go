package platform

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/docstore/pkg/adapters/badger"
	"github.com/aretw0/docstore/pkg/adapters/fs"
	"github.com/aretw0/docstore/pkg/adapters/memory"
	"github.com/aretw0/docstore/pkg/adapters/mongo"
	"github.com/aretw0/docstore/pkg/adapters/redis"
	"github.com/aretw0/docstore/pkg/adapters/sqlite"
	"github.com/aretw0/docstore/pkg/core"
)

// connectTimeout bounds the initial dial of network stores in Open.
const connectTimeout = 10 * time.Second

type opener func(ctx context.Context, uri, rest string, o *options) (core.Adapter, error)

var openers = map[string]opener{
	"fs":          openFS,
	"memory":      openMemory,
	"sqlite":      openSQLite,
	"badger":      openBadger,
	"redis":       openRedis,
	"rediss":      openRedis,
	"mongodb":     openMongo,
	"mongodb+srv": openMongo,
}

// Schemes lists the URI schemes Open understands.
func Schemes() []string {
	schemes := make([]string, 0, len(openers))
	for s := range openers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Open builds a DocumentManager for uri. A URI without a scheme is a
// filesystem path.
//
//	./data, fs://./data     directory tree
//	memory://               process memory
//	sqlite://./store.db     SQLite file
//	badger://./kv           Badger directory, badger:// alone is in-memory
//	redis://host:6379/0     Redis
//	mongodb://host/db       MongoDB
func Open(uri string, opts ...Option) (*core.DocumentManager, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return OpenContext(ctx, uri, opts...)
}

// OpenContext is Open with a caller-supplied context for the initial connection.
func OpenContext(ctx context.Context, uri string, opts ...Option) (*core.DocumentManager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	adapter := o.adapter
	if adapter == nil {
		var err error
		adapter, err = openAdapter(ctx, uri, o)
		if err != nil {
			return nil, err
		}
	}
	if o.readOnly {
		adapter = core.ReadOnly(adapter)
	}

	o.logger.Debug("store opened", "uri", redact(uri), "read_only", o.readOnly, "codec", o.codec.Name())
	return core.NewDocumentManager(adapter, core.WithManagerLogger(o.logger)), nil
}

func openAdapter(ctx context.Context, uri string, o *options) (core.Adapter, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty store uri")
	}
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return openFS(ctx, uri, uri, o)
	}
	open, found := openers[strings.ToLower(scheme)]
	if !found {
		return nil, fmt.Errorf("unknown store scheme %q (supported: %s)", scheme, strings.Join(Schemes(), ", "))
	}
	return open(ctx, uri, rest, o)
}

func openFS(_ context.Context, _, path string, o *options) (core.Adapter, error) {
	return fs.New(fs.Config{
		Path:         path,
		MustExist:    o.mustExist,
		Codec:        o.codec,
		Normalizer:   o.normalizer,
		Logger:       o.logger.With("adapter", "fs"),
		ErrorHandler: o.errorHandler,
	})
}

func openMemory(_ context.Context, _, _ string, o *options) (core.Adapter, error) {
	return memory.New(memory.Config{Codec: o.codec, Logger: o.logger.With("adapter", "memory")}), nil
}

func openSQLite(_ context.Context, _, path string, o *options) (core.Adapter, error) {
	return sqlite.Open(sqlite.Config{Path: path, Codec: o.codec, Logger: o.logger.With("adapter", "sqlite")})
}

func openBadger(_ context.Context, _, path string, o *options) (core.Adapter, error) {
	return badger.Open(badger.Config{
		Path:       path,
		Codec:      o.codec,
		Normalizer: o.normalizer,
		Logger:     o.logger.With("adapter", "badger"),
		GCInterval: 5 * time.Minute,
	})
}

func openRedis(ctx context.Context, uri, _ string, o *options) (core.Adapter, error) {
	return redis.Open(ctx, redis.Config{
		URL:        uri,
		Codec:      o.codec,
		Normalizer: o.normalizer,
		Logger:     o.logger.With("adapter", "redis"),
	})
}

func openMongo(ctx context.Context, uri, _ string, o *options) (core.Adapter, error) {
	return mongo.Open(ctx, mongo.Config{
		URI:        uri,
		Codec:      o.codec,
		Normalizer: o.normalizer,
		Logger:     o.logger.With("adapter", "mongo"),
	})
}

// redact hides credentials embedded in network URIs.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		return scheme + "://***@" + rest[at+1:]
	}
	return uri
}
