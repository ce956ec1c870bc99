package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// StoreDir is the directory the CLI uses as its default filesystem store.
const StoreDir = ".docstore"

// ErrRootNotFound is returned when no ancestor holds a StoreDir.
var ErrRootNotFound = errors.New("store root not found")

// FindRoot walks upwards from startDir and returns the first directory that
// contains a StoreDir.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if isDir(filepath.Join(dir, StoreDir)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

// DefaultStore returns the StoreDir of the nearest root above startDir, or a
// StoreDir inside startDir when there is none yet.
func DefaultStore(startDir string) string {
	if root, err := FindRoot(startDir); err == nil {
		return filepath.Join(root, StoreDir)
	}
	return filepath.Join(startDir, StoreDir)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
