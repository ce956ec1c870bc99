// Package codec turns documents into bytes and back. Adapters receive a Codec
// at construction time and never hard-code a storage encoding.
package codec

import (
	"fmt"
	"sort"

	"github.com/aretw0/docstore/pkg/core"
)

// Codec encodes and decodes document payloads.
// Decode(Encode(d)) must equal d for every document shape the codec supports.
type Codec interface {
	// Name identifies the codec in configuration ("json", "yaml", "bson").
	Name() string
	// Extension is the file suffix used by path-based adapters, including the dot.
	Extension() string
	Encode(doc core.Document) ([]byte, error)
	Decode(data []byte) (core.Document, error)
}

// Default returns the codec adapters use when none is configured.
func Default() Codec {
	return NewJSON(false)
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case "json", "":
		return NewJSON(false), nil
	case "json-strict":
		return NewJSON(true), nil
	case "yaml", "yml":
		return NewYAML(), nil
	case "bson":
		return NewBSON(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (supported: %v)", name, Names())
	}
}

// Names lists the codec names accepted by ByName.
func Names() []string {
	names := []string{"json", "json-strict", "yaml", "bson"}
	sort.Strings(names)
	return names
}
