// Package mongo stores each document collection as a MongoDB collection of
// {_id: id, payload: <codec bytes>} documents.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

const (
	// DefaultDatabase is used when neither Config nor the URI names one.
	DefaultDatabase = "docstore"
	// DefaultPrefix is prepended to every Mongo collection name.
	DefaultPrefix = "dc_"
)

// Config holds the configuration for the MongoDB adapter.
type Config struct {
	URI        string
	Database   string
	Prefix     string
	Codec      codec.Codec
	Normalizer normalize.Normalizer
	Logger     *slog.Logger
}

type entry struct {
	ID      string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

// Adapter implements core.Adapter on MongoDB.
type Adapter struct {
	client     *mongo.Client
	db         *mongo.Database
	prefix     string
	codec      codec.Codec
	normalizer normalize.Normalizer
	logger     *slog.Logger
}

// Open connects and pings the server.
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
	if config.Database == "" {
		cs, err := connstring.ParseAndValidate(config.URI)
		if err != nil {
			return nil, fmt.Errorf("mongo adapter: parse uri: %w", err)
		}
		config.Database = cs.Database
	}
	if config.Database == "" {
		config.Database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo adapter: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo adapter: ping: %w", err)
	}

	return &Adapter{
		client:     client,
		db:         client.Database(config.Database),
		prefix:     config.Prefix,
		codec:      config.Codec,
		normalizer: config.Normalizer,
		logger:     config.Logger,
	}, nil
}

// Database exposes the underlying database handle.
func (a *Adapter) Database() *mongo.Database {
	return a.db
}

// Close disconnects the client.
func (a *Adapter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}

func (a *Adapter) collection(name string) *mongo.Collection {
	return a.db.Collection(a.prefix + a.normalizer.Normalize(name))
}

func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	_, err = a.collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id},
		entry{ID: id, Payload: payload},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.logger.Debug("document written", "collection", collection, "id", id)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	var e entry
	err := a.collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.NewNotFoundError(collection, id, nil)
		}
		return nil, core.NewNotFoundError(collection, id, err)
	}
	doc, err := a.codec.Decode(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	if _, err := a.collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return core.NewDeleteFailedError(collection, id, err)
	}
	return nil
}

func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		cursor, err := a.collection(collection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			yield(core.Record{}, core.NewNotFoundError(collection, "", err))
			return
		}
		defer cursor.Close(context.Background())

		for cursor.Next(ctx) {
			var e entry
			if err := cursor.Decode(&e); err != nil {
				yield(core.Record{}, core.NewNotFoundError(collection, "", err))
				return
			}
			doc, err := a.codec.Decode(e.Payload)
			if err != nil {
				yield(core.Record{}, fmt.Errorf("decode %s/%s: %w", collection, e.ID, err))
				return
			}
			if !yield(core.Record{ID: e.ID, Data: doc}, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(core.Record{}, core.NewNotFoundError(collection, "", err))
		}
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		filter := bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(a.prefix)}}
		names, err := a.db.ListCollectionNames(ctx, filter)
		if err != nil {
			a.logger.Debug("listing collections failed", "error", err)
			return
		}
		for _, name := range names {
			decoded, err := a.normalizer.Denormalize(strings.TrimPrefix(name, a.prefix))
			if err != nil {
				continue
			}
			if !yield(decoded) {
				return
			}
		}
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "mongo"
}

var _ core.Adapter = (*Adapter)(nil)
