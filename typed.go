package docstore

import (
	"github.com/aretw0/docstore/pkg/typed"
)

// DocumentModel is a typed view of one stored document.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedCollection wraps a Collection with type-safe access.
type TypedCollection[T any] = typed.Collection[T]

// NewTyped creates a type-safe wrapper around an existing collection.
func NewTyped[T any](c *Collection) *TypedCollection[T] {
	return typed.NewCollection[T](c)
}

// OpenTyped opens uri and returns a typed handle on one of its collections.
// The manager is returned too so the caller can Close it.
func OpenTyped[T any](uri, collection string, opts ...Option) (*TypedCollection[T], *DocumentManager, error) {
	m, err := Open(uri, opts...)
	if err != nil {
		return nil, nil, err
	}
	return typed.NewCollection[T](m.Collection(collection)), m, nil
}
