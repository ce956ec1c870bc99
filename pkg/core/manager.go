package core

import (
	"context"
	"io"
	"iter"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v3"
)

// DocumentManager owns one Adapter and hands out Collection handles for it.
type DocumentManager struct {
	adapter     Adapter
	logger      *slog.Logger
	collections *xsync.MapOf[string, *Collection]
}

// ManagerOption configures a DocumentManager.
type ManagerOption func(*DocumentManager)

// WithManagerLogger sets the logger used by the manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *DocumentManager) {
		m.logger = logger
	}
}

// NewDocumentManager creates a manager over adapter.
func NewDocumentManager(adapter Adapter, opts ...ManagerOption) *DocumentManager {
	m := &DocumentManager{
		adapter:     adapter,
		collections: xsync.NewMapOf[string, *Collection](),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Adapter returns the wrapped adapter.
func (m *DocumentManager) Adapter() Adapter {
	return m.adapter
}

// Collection returns the handle bound to name. Repeated calls with the same
// name return the same handle; handles hold no document state.
func (m *DocumentManager) Collection(name string) *Collection {
	c, _ := m.collections.LoadOrCompute(name, func() *Collection {
		return NewCollection(m.adapter, name)
	})
	return c
}

// Collections enumerates every collection present in the backend.
func (m *DocumentManager) Collections(ctx context.Context) iter.Seq[*Collection] {
	return func(yield func(*Collection) bool) {
		for name := range m.adapter.CollectionNames(ctx) {
			if !yield(m.Collection(name)) {
				return
			}
		}
	}
}

// Close releases the adapter if it holds resources.
func (m *DocumentManager) Close() error {
	if c, ok := m.adapter.(io.Closer); ok {
		m.logger.Debug("closing adapter")
		return c.Close()
	}
	return nil
}
