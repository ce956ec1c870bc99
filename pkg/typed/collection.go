// Package typed layers Go types over a core.Collection. Values round-trip
// through encoding/json, so field tags control the stored document shape.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/aretw0/docstore/pkg/core"
)

// DocumentModel is a typed view of one stored document.
type DocumentModel[T any] struct {
	ID    string
	Data  T
	Saver Saver[T] // set when the model came from, or was saved through, a Collection
}

// Saver persists a DocumentModel.
type Saver[T any] interface {
	Save(ctx context.Context, doc *DocumentModel[T]) error
}

// Save persists the document through its attached Saver.
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document %q is detached (missing Saver)", d.ID)
	}
	return d.Saver.Save(ctx, d)
}

// Collection wraps a core.Collection with type-safe access.
type Collection[T any] struct {
	inner *core.Collection
}

// NewCollection creates a typed wrapper around an existing collection.
func NewCollection[T any](c *core.Collection) *Collection[T] {
	return &Collection[T]{inner: c}
}

// Name returns the underlying collection name.
func (c *Collection[T]) Name() string {
	return c.inner.Name()
}

// Write stores value under id.
func (c *Collection[T]) Write(ctx context.Context, id string, value T) error {
	doc, err := toDocument(value)
	if err != nil {
		return core.NewWriteFailedError(c.inner.Name(), id, err)
	}
	return c.inner.WriteData(ctx, id, doc)
}

// Save implements Saver.
func (c *Collection[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	if err := c.Write(ctx, doc.ID, doc.Data); err != nil {
		return err
	}
	if doc.Saver == nil {
		doc.Saver = c
	}
	return nil
}

// Read loads id and decodes it into T.
func (c *Collection[T]) Read(ctx context.Context, id string) (*DocumentModel[T], error) {
	doc, err := c.inner.ReadData(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.model(id, doc)
}

// Has reports whether id exists.
func (c *Collection[T]) Has(ctx context.Context, id string) (bool, error) {
	return c.inner.HasDocumentByID(ctx, id)
}

// Delete removes id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.inner.DeleteDocument(ctx, id)
}

// All lazily decodes every document of the collection. A document that does
// not fit T ends the sequence with an error.
func (c *Collection[T]) All(ctx context.Context) iter.Seq2[*DocumentModel[T], error] {
	return func(yield func(*DocumentModel[T], error) bool) {
		for rec, err := range c.inner.ReadAllDocuments(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			model, err := c.model(rec.ID, rec.Data)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(model, nil) {
				return
			}
		}
	}
}

func (c *Collection[T]) model(id string, doc core.Document) (*DocumentModel[T], error) {
	data, err := fromDocument[T](doc)
	if err != nil {
		return nil, fmt.Errorf("document %s/%s: %w", c.inner.Name(), id, err)
	}
	return &DocumentModel[T]{ID: id, Data: data, Saver: c}, nil
}

func toDocument[T any](value T) (core.Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal typed data: %w", err)
	}
	var doc core.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("typed data is not an object: %w", err)
	}
	return doc, nil
}

func fromDocument[T any](doc core.Document) (T, error) {
	var value T
	raw, err := json.Marshal(doc)
	if err != nil {
		return value, fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("unmarshal to target type: %w", err)
	}
	return value, nil
}
