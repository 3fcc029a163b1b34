package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const uploadsDir = "uploads"

// AllocateUniquePath finds a collision-free on-disk name for
// sanitizedName inside the endpoint's directory and reserves it with an
// exclusive create, so two concurrent uploads of the same name can
// never both claim one path. On collision the candidate becomes
// "<stem>-<timestamp>-<counter><ext>" with a strictly increasing
// counter. Returns the root-relative path (ledger value) and the final
// filename (display value).
func AllocateUniquePath(root string, endpointID string, sanitizedName string) (relPath string, finalName string, err error) {
	relDir := path.Join(uploadsDir, endpointID)
	fullDir := filepath.Join(root, uploadsDir, endpointID)
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create endpoint dir: %w", err)
	}

	ext := filepath.Ext(sanitizedName)
	stem := strings.TrimSuffix(sanitizedName, ext)

	candidate := sanitizedName
	for counter := 1; ; counter++ {
		f, err := os.OpenFile(filepath.Join(fullDir, candidate), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return path.Join(relDir, candidate), candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", fmt.Errorf("reserve %s: %w", candidate, err)
		}
		timestamp := time.Now().Format("20060102150405")
		candidate = fmt.Sprintf("%s-%s-%d%s", stem, timestamp, counter, ext)
	}
}
