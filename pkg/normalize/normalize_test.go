package normalize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docstore/pkg/normalize"
)

func TestFileName_Normalize(t *testing.T) {
	n := normalize.FileName{}

	cases := map[string]string{
		"users":       "users",
		"user-1_a.b":  "user-1_a.b",
		"a/b":         "a%2Fb",
		"..":          "%2E.",
		".hidden":     "%2Ehidden",
		"100%":        "100%25",
		"with space":  "with%20space",
		"":            "%",
		"C:\\windows": "%43%3A%5Cwindows",
		"README":      "%52%45%41%44%4D%45",
	}
	for raw, want := range cases {
		assert.Equal(t, want, n.Normalize(raw), "normalize %q", raw)
	}
}

func TestFileName_RoundTrip(t *testing.T) {
	n := normalize.FileName{}
	corpus := []string{"", "1", "a/b/c", "%", "%25", ".", "..", "ção", "x y\tz", "a.db.json", "_", "A", "a", "Ab", "aB"}

	seen := make(map[string]string)
	for _, raw := range corpus {
		key := n.Normalize(raw)
		if prev, ok := seen[key]; ok {
			t.Fatalf("keys collide: %q and %q both map to %q", prev, raw, key)
		}
		seen[key] = raw

		back, err := n.Denormalize(key)
		require.NoError(t, err)
		assert.Equal(t, raw, back)
	}
}

func TestFileName_DenormalizeRejectsForeignKeys(t *testing.T) {
	n := normalize.FileName{}

	for _, key := range []string{".hidden", "a%2", "a%zz", "a b", "%61", "A", "%2e"} {
		_, err := n.Denormalize(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestFileName_CaseInsensitiveInjective(t *testing.T) {
	n := normalize.FileName{}
	corpus := []string{"a", "A", "ab", "Ab", "aB", "AB", "%4a", "%4A", "readme", "README"}

	for i, x := range corpus {
		for _, y := range corpus[i+1:] {
			assert.False(t, strings.EqualFold(n.Normalize(x), n.Normalize(y)),
				"%q and %q collide on a case-insensitive filesystem", x, y)
		}
	}
}

func TestIdentity(t *testing.T) {
	n := normalize.Identity{}
	assert.Equal(t, "a/b", n.Normalize("a/b"))

	raw, err := n.Denormalize("a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", raw)
}
