package platform

import (
	"log/slog"

	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
	"github.com/aretw0/docstore/pkg/normalize"
)

// options holds the configuration shared by every adapter Open builds.
type options struct {
	adapter      core.Adapter
	logger       *slog.Logger
	codec        codec.Codec
	normalizer   normalize.Normalizer
	readOnly     bool
	mustExist    bool
	errorHandler func(error)
}

// Option defines a functional option for Open.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:     slog.New(slog.DiscardHandler),
		codec:      codec.Default(),
		normalizer: normalize.Default(),
	}
}

// WithLogger sets the logger handed to the adapter and the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCodec sets the payload codec. Defaults to JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithNormalizer sets the key normalizer for path-like backends.
// Defaults to normalize.FileName.
func WithNormalizer(n normalize.Normalizer) Option {
	return func(o *options) {
		if n != nil {
			o.normalizer = n
		}
	}
}

// WithReadOnly wraps the adapter so every write and delete fails with
// core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist makes filesystem stores fail instead of creating a missing
// directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithAdapter injects an already built adapter; the URI is then ignored.
func WithAdapter(adapter core.Adapter) Option {
	return func(o *options) {
		o.adapter = adapter
	}
}

// WithWatcherErrorHandler receives errors raised while watching a filesystem
// store.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
