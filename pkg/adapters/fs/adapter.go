// Package fs stores documents as files in a directory tree:
//
//	<root>/<normalized collection>/<normalized id><codec extension>
//
// Keys are normalized with a reversible normalize.Normalizer so enumerations
// recover the caller's identifiers. Writes go through a temp file and a rename.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

// Config holds the configuration for the filesystem adapter.
type Config struct {
	Path string
	// MustExist makes New fail when Path is not an existing directory
	// instead of creating it.
	MustExist  bool
	Codec      codec.Codec
	Normalizer normalize.Normalizer
	Logger     *slog.Logger
	// ErrorHandler receives errors raised by the background watcher.
	ErrorHandler func(error)
	// FileMode applies to document files. Defaults to 0644.
	FileMode os.FileMode
}

// Adapter implements core.Adapter on a directory tree.
type Adapter struct {
	root   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

var errStopWalk = errors.New("stop walk")

// New prepares the root directory and returns the adapter.
func New(config Config) (*Adapter, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("fs adapter: path is required")
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
	if config.FileMode == 0 {
		config.FileMode = 0o644
	}

	root, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("fs adapter: resolve %s: %w", config.Path, err)
	}

	info, err := os.Stat(root)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("fs adapter: %s is not a directory", root)
	case err != nil && !errors.Is(err, iofs.ErrNotExist):
		return nil, fmt.Errorf("fs adapter: stat %s: %w", root, err)
	case err != nil && config.MustExist:
		return nil, fmt.Errorf("fs adapter: %s does not exist: %w", root, err)
	case err != nil:
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("fs adapter: create %s: %w", root, err)
		}
		config.Logger.Debug("created store directory", "path", root)
	}

	return &Adapter{root: root, config: config}, nil
}

// Path returns the absolute root directory.
func (a *Adapter) Path() string {
	return a.root
}

func (a *Adapter) collectionDir(collection string) string {
	return filepath.Join(a.root, a.config.Normalizer.Normalize(collection))
}

func (a *Adapter) documentPath(collection, id string) string {
	return filepath.Join(a.collectionDir(collection), a.config.Normalizer.Normalize(id)+a.config.Codec.Extension())
}

// documentID reverses documentPath for a file name inside a collection directory.
func (a *Adapter) documentID(name string) (string, bool) {
	ext := a.config.Codec.Extension()
	if strings.HasPrefix(name, TempFilePrefix) || !strings.HasSuffix(name, ext) {
		return "", false
	}
	id, err := a.config.Normalizer.Denormalize(strings.TrimSuffix(name, ext))
	if err != nil {
		return "", false
	}
	return id, true
}

// Has reads the document, so a payload the codec rejects is reported as an error.
func (a *Adapter) Has(ctx context.Context, collection, id string) (bool, error) {
	return core.Exists(a.Read(ctx, collection, id))
}

func (a *Adapter) Write(ctx context.Context, collection, id string, data core.Document) error {
	payload, err := a.config.Codec.Encode(data)
	if err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	if err := os.MkdirAll(a.collectionDir(collection), 0o755); err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	path := a.documentPath(collection, id)
	if err := writeFileAtomic(path, payload, a.config.FileMode); err != nil {
		return core.NewWriteFailedError(collection, id, err)
	}
	a.config.Logger.Debug("document written", "collection", collection, "id", id, "path", path)
	return nil
}

func (a *Adapter) Read(ctx context.Context, collection, id string) (core.Document, error) {
	payload, err := os.ReadFile(a.documentPath(collection, id))
	if err != nil {
		return nil, core.NewNotFoundError(collection, id, err)
	}
	doc, err := a.config.Codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (a *Adapter) Delete(ctx context.Context, collection, id string) error {
	err := os.Remove(a.documentPath(collection, id))
	if err == nil || errors.Is(err, iofs.ErrNotExist) {
		return nil
	}
	return core.NewDeleteFailedError(collection, id, err)
}

// ReadAll walks the collection directory lazily, one file per step.
// Files that do not decode to a canonical key are not documents and are skipped.
func (a *Adapter) ReadAll(ctx context.Context, collection string) iter.Seq2[core.Record, error] {
	return func(yield func(core.Record, error) bool) {
		dir := a.collectionDir(collection)
		if _, err := os.Stat(dir); err != nil {
			if !errors.Is(err, iofs.ErrNotExist) {
				yield(core.Record{}, core.NewNotFoundError(collection, "", err))
			}
			return
		}

		stopped := false
		err := doublestar.GlobWalk(os.DirFS(dir), "*"+a.config.Codec.Extension(), func(name string, d iofs.DirEntry) error {
			id, ok := a.documentID(name)
			if !ok {
				a.config.Logger.Debug("skipping foreign file", "collection", collection, "name", name)
				return nil
			}
			payload, err := os.ReadFile(filepath.Join(dir, name))
			if errors.Is(err, iofs.ErrNotExist) {
				// removed between listing and reading
				return nil
			}
			if err != nil {
				stopped = !yield(core.Record{}, core.NewNotFoundError(collection, id, err))
				return errStopWalk
			}
			doc, err := a.config.Codec.Decode(payload)
			if err != nil {
				stopped = !yield(core.Record{}, fmt.Errorf("decode %s/%s: %w", collection, id, err))
				return errStopWalk
			}
			if !yield(core.Record{ID: id, Data: doc}, nil) {
				stopped = true
				return errStopWalk
			}
			return nil
		}, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())

		if err != nil && !errors.Is(err, errStopWalk) && !stopped {
			yield(core.Record{}, core.NewNotFoundError(collection, "", err))
		}
	}
}

func (a *Adapter) CollectionNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		entries, err := os.ReadDir(a.root)
		if err != nil {
			a.config.Logger.Debug("listing collections failed", "path", a.root, "error", err)
			return
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name, err := a.config.Normalizer.Denormalize(entry.Name())
			if err != nil {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

var _ core.Adapter = (*Adapter)(nil)
