// Package normalize maps raw collection names and document IDs onto keys that
// are safe to use as path segments or key fragments, and back.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalizer converts between raw identifiers and backend keys.
// Normalize must be deterministic and injective; Denormalize reverses it and
// rejects keys Normalize would never produce.
type Normalizer interface {
	Normalize(raw string) string
	Denormalize(key string) (string, error)
}

// Default returns the normalizer adapters use when none is configured.
func Default() Normalizer {
	return FileName{}
}

// FileName percent-escapes everything outside [a-z0-9._-] so that the key is
// a single portable path segment. Uppercase letters are escaped as well, so
// "A" and "a" stay distinct on case-insensitive filesystems. A leading dot is
// escaped too, which keeps keys clear of "." / ".." and hidden files. The empty
// string maps to "%".
type FileName struct{}

const emptyKey = "%"

func (FileName) Normalize(raw string) string {
	if raw == "" {
		return emptyKey
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isSafe(c) && !(c == '.' && i == 0) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func (n FileName) Denormalize(key string) (string, error) {
	if key == emptyKey {
		return "", nil
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(key) {
			return "", fmt.Errorf("truncated escape in key %q", key)
		}
		v, err := strconv.ParseUint(key[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("invalid escape in key %q: %w", key, err)
		}
		b.WriteByte(byte(v))
		i += 2
	}

	raw := b.String()
	if n.Normalize(raw) != key {
		return "", fmt.Errorf("key %q is not in canonical form", key)
	}
	return raw, nil
}

func isSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.':
		return true
	}
	return false
}

// Identity leaves keys untouched. Use it only with backends that accept any
// string as a key.
type Identity struct{}

func (Identity) Normalize(raw string) string             { return raw }
func (Identity) Denormalize(key string) (string, error) { return key, nil }
