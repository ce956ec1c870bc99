package core

import (
	"context"
	"iter"
)

// Collection is a named view over an Adapter. Every call is forwarded with the
// collection name bound; nothing is cached between calls.
type Collection struct {
	adapter Adapter
	name    string
}

// NewCollection binds name to adapter.
func NewCollection(adapter Adapter, name string) *Collection {
	return &Collection{adapter: adapter, name: name}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// HasDocumentByID reports whether the document exists.
func (c *Collection) HasDocumentByID(ctx context.Context, id string) (bool, error) {
	return c.adapter.Has(ctx, c.name, id)
}

// WriteData upserts a document.
func (c *Collection) WriteData(ctx context.Context, id string, data Document) error {
	return c.adapter.Write(ctx, c.name, id, data)
}

// ReadData loads a document.
func (c *Collection) ReadData(ctx context.Context, id string) (Document, error) {
	return c.adapter.Read(ctx, c.name, id)
}

// DeleteDocument removes a document.
func (c *Collection) DeleteDocument(ctx context.Context, id string) error {
	return c.adapter.Delete(ctx, c.name, id)
}

// ReadAllDocuments enumerates the documents currently in the collection.
func (c *Collection) ReadAllDocuments(ctx context.Context) iter.Seq2[Record, error] {
	return c.adapter.ReadAll(ctx, c.name)
}
