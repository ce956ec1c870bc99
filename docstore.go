package docstore

import (
	"context"
	"log/slog"

	"github.com/aretw0/docstore/internal/platform"
	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

// --- Types ---

type (
	Document        = core.Document
	Record          = core.Record
	Adapter         = core.Adapter
	Collection      = core.Collection
	DocumentManager = core.DocumentManager
	Synchronizer    = core.Synchronizer
	Report          = core.Report
	Event           = core.Event
)

// Errors re-exported from core.
var (
	ErrNotFound     = core.ErrNotFound
	ErrWriteFailed  = core.ErrWriteFailed
	ErrDeleteFailed = core.ErrDeleteFailed
	ErrReadOnly     = core.ErrReadOnly
)

// IsNotFound reports whether err is, or wraps, a NotFound error.
func IsNotFound(err error) bool {
	return core.IsNotFound(err)
}

// --- Configuration ---

// Option defines a functional option for Open.
type Option = platform.Option

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithCodec sets the payload codec (see codec.ByName).
func WithCodec(c codec.Codec) Option {
	return platform.WithCodec(c)
}

// WithNormalizer sets the key normalizer for path-like backends.
func WithNormalizer(n normalize.Normalizer) Option {
	return platform.WithNormalizer(n)
}

// WithReadOnly rejects every write and delete with ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist makes a filesystem store fail when its directory is missing.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithAdapter injects a custom adapter; the URI passed to Open is ignored.
func WithAdapter(adapter Adapter) Option {
	return platform.WithAdapter(adapter)
}

// WithWatcherErrorHandler receives errors from a filesystem store's watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open creates a DocumentManager for uri. See platform.Open for the schemes.
func Open(uri string, opts ...Option) (*DocumentManager, error) {
	return platform.Open(uri, opts...)
}

// OpenContext is Open with a context bounding the initial connection.
func OpenContext(ctx context.Context, uri string, opts ...Option) (*DocumentManager, error) {
	return platform.OpenContext(ctx, uri, opts...)
}

// NewSynchronizer creates a Synchronizer copying source into target.
func NewSynchronizer(source, target *DocumentManager, opts ...core.SyncOption) *Synchronizer {
	return core.NewSynchronizer(source, target, opts...)
}

// FindRoot walks upwards from startDir looking for a .docstore directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
