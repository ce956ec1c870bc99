// Package core holds the storage-agnostic heart of docstore: the Adapter contract,
// the Collection and DocumentManager views built on it, the Synchronizer and the
// shared error taxonomy.
package core

import (
	"fmt"
	"strconv"
)

// Document is an opaque key-value payload stored under a collection-scoped ID.
// The core never looks inside it; adapters hand it to a codec.
type Document map[string]any

// Record is one element of a collection enumeration.
type Record struct {
	ID   string
	Data Document
}

// IDType lists the identifier kinds accepted by FormatID.
type IDType interface {
	~string | ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// FormatID turns a string or integer identifier into its storage form.
// Integers are written in base 10, so FormatID(1) and FormatID("1") address
// the same document.
func FormatID[T IDType](id T) string {
	switch v := any(id).(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return fmt.Sprint(id)
}

// EventType represents the type of change observed in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in a watchable store.
type Event struct {
	Type       EventType
	Collection string
	ID         string
	Timestamp  int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Collection, e.ID)
}
