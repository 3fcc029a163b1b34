package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a path absent from disk, even when the ledger
// still references it.
var ErrNotFound = errors.New("file not found in store")

// DiskStore persists uploaded bytes under a single media root.
// Single writer per path, last completed write wins.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

// fullPath resolves a ledger-relative path against the root, refusing
// anything that would escape it.
func (s *DiskStore) fullPath(relPath string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(relPath))
	rootAbs, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes media root", relPath)
	}
	return full, nil
}

// Write stores the stream at relPath, creating parent directories, and
// returns the number of bytes written.
func (s *DiskStore) Write(relPath string, r io.Reader) (int64, error) {
	full, err := s.fullPath(relPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}
	return n, nil
}

// Open returns a byte stream for relPath or ErrNotFound.
func (s *DiskStore) Open(relPath string) (io.ReadCloser, error) {
	full, err := s.fullPath(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Exists reports whether relPath is present on disk.
func (s *DiskStore) Exists(relPath string) bool {
	full, err := s.fullPath(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// Remove deletes relPath from disk. Used for cleanup of partial
// uploads; absence is not an error.
func (s *DiskStore) Remove(relPath string) error {
	full, err := s.fullPath(relPath)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
