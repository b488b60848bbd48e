package platform

import (
	"fmt"
	"os"
	"sync"
)

// TmpDirPattern names the private scratch directory created for a profile
const TmpDirPattern = "browser-shell-"

// FileHelpers owns the profile data directory and a private scratch directory
// for the lifetime of a process.
type FileHelpers struct {
	dataDir string
	tmpDir  string

	once sync.Once
	err  error
}

// InitFileHelpers prepares dataDir and a private temporary directory
func InitFileHelpers(dataDir string) (*FileHelpers, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory is empty")
	}

	if err := os.MkdirAll(dataDir, PrivateDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	tmpDir, err := os.MkdirTemp("", TmpDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	return &FileHelpers{dataDir: dataDir, tmpDir: tmpDir}, nil
}

// DataDir returns the profile data directory
func (h *FileHelpers) DataDir() string {
	return h.dataDir
}

// TmpDir returns the private scratch directory
func (h *FileHelpers) TmpDir() string {
	return h.tmpDir
}

// Shutdown removes the scratch directory. The data directory is left alone.
func (h *FileHelpers) Shutdown() error {
	h.once.Do(func() {
		if err := os.RemoveAll(h.tmpDir); err != nil {
			h.err = fmt.Errorf("failed to remove temporary directory: %w", err)
		}
	})
	return h.err
}
