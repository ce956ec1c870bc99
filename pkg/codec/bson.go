package codec

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aretw0/docstore/pkg/core"
)

// BSON stores documents in MongoDB's binary format.
// Decoded integers come back as int, embedded documents as map[string]any and
// arrays as []any.
type BSON struct{}

// NewBSON creates a BSON codec.
func NewBSON() *BSON {
	return &BSON{}
}

func (c *BSON) Name() string      { return "bson" }
func (c *BSON) Extension() string { return ".db.bson" }

func (c *BSON) Encode(doc core.Document) ([]byte, error) {
	if doc == nil {
		doc = core.Document{}
	}
	data, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("bson encode: %w", err)
	}
	return data, nil
}

func (c *BSON) Decode(data []byte) (core.Document, error) {
	var payload bson.M
	if err := bson.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("bson decode: %w", err)
	}
	return core.Document(fromBSONMap(payload)), nil
}

func fromBSONMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = fromBSONValue(v)
	}
	return out
}

func fromBSONValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return fromBSONMap(val)
	case map[string]any:
		return fromBSONMap(val)
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = fromBSONValue(e.Value)
		}
		return m
	case bson.A:
		l := make([]any, len(val))
		for i, item := range val {
			l[i] = fromBSONValue(item)
		}
		return l
	case []any:
		l := make([]any, len(val))
		for i, item := range val {
			l[i] = fromBSONValue(item)
		}
		return l
	case int32:
		return int(val)
	case int64:
		if val >= math.MinInt && val <= math.MaxInt {
			return int(val)
		}
		return val
	case primitive.Null:
		return nil
	default:
		return v
	}
}
