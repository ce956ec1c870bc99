package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   repo/ (.docstore)
	//     subdir/nested/
	//   empty/
	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	subDir := filepath.Join(repoDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	require.NoError(t, os.MkdirAll(emptyDir, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(repoDir, StoreDir), 0o755))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{"StartAtRoot", repoDir, repoDir, false},
		{"StartInSubdir", subDir, repoDir, false},
		{"StartDeep", nestedDir, repoDir, false},
		{"NoMarker", emptyDir, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				// an ancestor of the temp dir could carry a marker; only assert it is not ours
				if err == nil {
					assert.NotEqual(t, repoDir, got)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, got)
		})
	}
}

func TestFindRootIgnoresMarkerFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StoreDir), nil, 0o644))

	got, err := FindRoot(dir)
	if err == nil {
		assert.NotEqual(t, dir, got)
	}
}

func TestDefaultStore(t *testing.T) {
	repoDir := t.TempDir()
	nested := filepath.Join(repoDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(repoDir, StoreDir), 0o755))

	assert.Equal(t, filepath.Join(repoDir, StoreDir), DefaultStore(nested))
}
