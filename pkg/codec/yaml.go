package codec

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/docstore/pkg/core"
)

// YAML stores documents as YAML mappings.
type YAML struct{}

// NewYAML creates a YAML codec.
func NewYAML() *YAML {
	return &YAML{}
}

func (c *YAML) Name() string      { return "yaml" }
func (c *YAML) Extension() string { return ".db.yaml" }

func (c *YAML) Encode(doc core.Document) ([]byte, error) {
	data, err := yaml.Marshal(map[string]any(doc))
	if err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	return data, nil
}

func (c *YAML) Decode(data []byte) (core.Document, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	if payload == nil {
		return nil, nil
	}
	return core.Document(normalizeMap(payload)), nil
}

// normalizeMap converts the generic containers produced by decoders into
// map[string]any / []any so documents compare equal regardless of codec.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case core.Document:
		return normalizeMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalizeValue(item)
		}
		return m
	case []any:
		l := make([]any, len(val))
		for i, item := range val {
			l[i] = normalizeValue(item)
		}
		return l
	default:
		return v
	}
}
