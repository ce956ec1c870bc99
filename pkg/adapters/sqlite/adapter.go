// Package sqlite stores every collection in one SQLite database.
//
// Table:
//
//	documents(collection, id, data)  PRIMARY KEY (collection, id)
//
// Identifiers are stored verbatim; data holds the codec-encoded payload.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

// Config holds the configuration for the SQLite adapter.
type Config struct {
	Path   string
	Codec  codec.Codec
	Logger *slog.Logger
}

// Adapter implements core.Adapter on a SQLite table.
type Adapter struct {
	db     *sql.DB
	path   string
	codec  codec.Codec
	logger *slog.Logger
}

// Open creates the database file (and its directory) when missing.
func Open(config Config) (*Adapter, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite adapter: path is required")
	}
	if config.Codec == nil {
		config.Codec = codec.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite adapter: %w", err)
	}
	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite adapter: open %s: %w", config.Path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite adapter: enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite adapter: busy timeout: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (collection, id)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite adapter: create table: %w", err)
	}

	config.Logger.Debug("sqlite store opened", "path", config.Path)
	return &Adapter{db: db, path: config.Path, codec: config.Codec, logger: config.Logger}, nil
}

// Close releases the database handle.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, payload,
	)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.logger.Debug("document written", "collection", collection, "id", id)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	var payload []byte
	err := a.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&payload)
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
	_, err := a.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id,
	)
	if err != nil {
		return core.NewDeleteFailedError(collection, id, err)
	}
	return nil
}

// ReadAll streams rows from an open cursor. Callers must not delete from the
// same collection until the sequence is exhausted.
func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		rows, err := a.db.QueryContext(ctx,
			"SELECT id, data FROM documents WHERE collection = ? ORDER BY id", collection,
		)
		if err != nil {
			yield(core.Record{}, core.NewNotFoundError(collection, "", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			var payload []byte
			if err := rows.Scan(&id, &payload); err != nil {
				yield(core.Record{}, core.NewNotFoundError(collection, "", err))
				return
			}
			doc, err := a.codec.Decode(payload)
			if err != nil {
				yield(core.Record{}, fmt.Errorf("decode %s/%s: %w", collection, id, err))
				return
			}
			if !yield(core.Record{ID: id, Data: doc}, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(core.Record{}, core.NewNotFoundError(collection, "", err))
		}
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		rows, err := a.db.QueryContext(ctx, "SELECT DISTINCT collection FROM documents ORDER BY collection")
		if err != nil {
			a.logger.Debug("listing collections failed", "error", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				a.logger.Debug("listing collections failed", "error", err)
				return
			}
			if !yield(name) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			a.logger.Debug("listing collections failed", "error", err)
		}
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "sqlite"
}

var _ core.Adapter = (*Adapter)(nil)
