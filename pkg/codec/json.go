package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/docstore/pkg/core"
)

// JSON stores documents as JSON objects.
type JSON struct {
	// Strict decodes numbers as json.Number to avoid float64 precision loss.
	Strict bool
}

// NewJSON creates a JSON codec.
func NewJSON(strict bool) *JSON {
	return &JSON{Strict: strict}
}

func (c *JSON) Name() string {
	if c.Strict {
		return "json-strict"
	}
	return "json"
}

func (c *JSON) Extension() string { return ".db.json" }

func (c *JSON) Encode(doc core.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

func (c *JSON) Decode(data []byte) (core.Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if c.Strict {
		decoder.UseNumber()
	}

	var doc core.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return doc, nil
}
