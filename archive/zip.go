// Package archive assembles bulk zip downloads for an endpoint and
// writes the matching audit trail.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filedrop/dataroom-backend/models"
	"github.com/filedrop/dataroom-backend/storage"
)

// ErrNoFiles reports an endpoint with zero active files. The caller
// renders an empty-state response; no archive or audit rows exist.
var ErrNoFiles = errors.New("no files available to download")

// Result is a fully built bulk archive.
type Result struct {
	Data       []byte
	Filename   string
	FileCount  int   // selected active files, not reduced by disk skips
	TotalBytes int64 // summed from ledger sizes, never re-measured
}

// BuildZip collects the endpoint's active files into a deflate zip,
// ordered by filename ascending. Files missing on disk are skipped
// silently. One FileDownload row per file actually added and, when at
// least one was added, one BulkDownload summary row are written in a
// single transaction after assembly.
func BuildZip(db *gorm.DB, store *storage.DiskStore, endpoint *models.DataEndpoint, actor *uuid.UUID, ip string) (*Result, error) {
	files, err := models.ActiveFilesByName(db, endpoint.ID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.FileSizeBytes
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var added []models.UploadedFile
	for _, f := range files {
		src, err := store.Open(f.FilePath)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			zw.Close()
			return nil, err
		}
		w, err := zw.Create(f.Filename)
		if err != nil {
			src.Close()
			zw.Close()
			return nil, err
		}
		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			zw.Close()
			return nil, err
		}
		src.Close()
		added = append(added, f)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	if len(added) > 0 {
		err = db.Transaction(func(tx *gorm.DB) error {
			for _, f := range added {
				if err := models.RecordFileDownload(tx, f.ID, actor, ip); err != nil {
					return err
				}
			}
			return models.RecordBulkDownload(tx, endpoint.ID, actor, ip, len(files), totalBytes)
		})
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Data:       buf.Bytes(),
		Filename:   Filename(endpoint.Customer.Name, endpoint.Name, time.Now()),
		FileCount:  len(files),
		TotalBytes: totalBytes,
	}, nil
}

// Filename builds "<customer>-<endpoint>-YYYY-MM-DD-HHMMSS.zip" with
// both name parts reduced to [A-Za-z0-9_-].
func Filename(customerName, endpointName string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s.zip",
		cleanNamePart(customerName),
		cleanNamePart(endpointName),
		at.Format("2006-01-02-150405"))
}

func cleanNamePart(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
