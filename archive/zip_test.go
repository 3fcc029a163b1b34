package archive_test

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/filedrop/dataroom-backend/archive"
	"github.com/filedrop/dataroom-backend/models"
	"github.com/filedrop/dataroom-backend/storage"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.DataEndpoint{},
		&models.UploadedFile{}, &models.FileDownload{}, &models.BulkDownload{},
	))
	return db
}

func seedEndpoint(t *testing.T, db *gorm.DB) *models.DataEndpoint {
	t.Helper()
	customer := models.Customer{Name: "Test Corp"}
	require.NoError(t, db.Create(&customer).Error)
	endpoint := models.DataEndpoint{CustomerID: customer.ID, Name: "Q1 POC"}
	require.NoError(t, db.Create(&endpoint).Error)
	endpoint.Customer = customer
	return &endpoint
}

// seedFile writes content to the store unless content is nil, and
// always creates the ledger row with the declared size.
func seedFile(t *testing.T, db *gorm.DB, store *storage.DiskStore, endpoint *models.DataEndpoint, name string, content []byte, declaredSize int64) *models.UploadedFile {
	t.Helper()
	relPath := "uploads/" + endpoint.ID.String() + "/" + name
	if content != nil {
		_, err := store.Write(relPath, bytes.NewReader(content))
		require.NoError(t, err)
	}
	file := models.UploadedFile{
		EndpointID:    endpoint.ID,
		Filename:      name,
		FilePath:      relPath,
		FileSizeBytes: declaredSize,
		UploadedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&file).Error)
	return &file
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		entries[f.Name] = string(content)
	}
	return entries
}

func TestBuildZipExcludesSoftDeleted(t *testing.T) {
	db := testDB(t)
	store := storage.NewDiskStore(t.TempDir())
	endpoint := seedEndpoint(t, db)

	seedFile(t, db, store, endpoint, "a.txt", []byte("aaa"), 3)
	seedFile(t, db, store, endpoint, "b.txt", []byte("bbbb"), 4)
	seedFile(t, db, store, endpoint, "c.txt", []byte("cc"), 2)
	gone := seedFile(t, db, store, endpoint, "gone.txt", []byte("zzz"), 3)
	_, err := models.SoftDeleteFile(db, gone.ID, "10.0.0.1")
	require.NoError(t, err)

	result, err := archive.BuildZip(db, store, endpoint, nil, "10.0.0.1")
	require.NoError(t, err)

	entries := readZip(t, result.Data)
	assert.Len(t, entries, 3)
	assert.Equal(t, "aaa", entries["a.txt"])
	assert.Equal(t, "bbbb", entries["b.txt"])
	assert.Equal(t, "cc", entries["c.txt"])
	assert.NotContains(t, entries, "gone.txt")

	assert.Equal(t, 3, result.FileCount)
	assert.Equal(t, int64(9), result.TotalBytes)

	var fileDownloads int64
	db.Model(&models.FileDownload{}).Count(&fileDownloads)
	assert.Equal(t, int64(3), fileDownloads)

	var bulk models.BulkDownload
	require.NoError(t, db.First(&bulk).Error)
	assert.Equal(t, 3, bulk.FileCount)
	assert.Equal(t, int64(9), bulk.TotalBytes)
	assert.Equal(t, "10.0.0.1", bulk.IPAddress)
}

func TestBuildZipMemberOrder(t *testing.T) {
	db := testDB(t)
	store := storage.NewDiskStore(t.TempDir())
	endpoint := seedEndpoint(t, db)

	seedFile(t, db, store, endpoint, "cherry.txt", []byte("3"), 1)
	seedFile(t, db, store, endpoint, "apple.txt", []byte("1"), 1)
	seedFile(t, db, store, endpoint, "banana.txt", []byte("2"), 1)

	result, err := archive.BuildZip(db, store, endpoint, nil, "")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(result.Data), int64(len(result.Data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"apple.txt", "banana.txt", "cherry.txt"}, names)
}

func TestBuildZipNoFiles(t *testing.T) {
	db := testDB(t)
	store := storage.NewDiskStore(t.TempDir())
	endpoint := seedEndpoint(t, db)

	_, err := archive.BuildZip(db, store, endpoint, nil, "")
	assert.ErrorIs(t, err, archive.ErrNoFiles)

	var fileDownloads, bulkDownloads int64
	db.Model(&models.FileDownload{}).Count(&fileDownloads)
	db.Model(&models.BulkDownload{}).Count(&bulkDownloads)
	assert.Zero(t, fileDownloads)
	assert.Zero(t, bulkDownloads)
}

func TestBuildZipSkipsMissingOnDisk(t *testing.T) {
	db := testDB(t)
	store := storage.NewDiskStore(t.TempDir())
	endpoint := seedEndpoint(t, db)

	seedFile(t, db, store, endpoint, "present.txt", []byte("here"), 4)
	seedFile(t, db, store, endpoint, "absent.txt", nil, 7) // ledger row only

	result, err := archive.BuildZip(db, store, endpoint, nil, "")
	require.NoError(t, err)

	entries := readZip(t, result.Data)
	assert.Len(t, entries, 1)
	assert.Contains(t, entries, "present.txt")

	// Counts reflect the selected set, not the archived set.
	assert.Equal(t, 2, result.FileCount)
	assert.Equal(t, int64(11), result.TotalBytes)

	var fileDownloads int64
	db.Model(&models.FileDownload{}).Count(&fileDownloads)
	assert.Equal(t, int64(1), fileDownloads)

	var bulk models.BulkDownload
	require.NoError(t, db.First(&bulk).Error)
	assert.Equal(t, 2, bulk.FileCount)
	assert.Equal(t, int64(11), bulk.TotalBytes)
}

func TestBuildZipAllMissingWritesNoAudit(t *testing.T) {
	db := testDB(t)
	store := storage.NewDiskStore(t.TempDir())
	endpoint := seedEndpoint(t, db)

	seedFile(t, db, store, endpoint, "absent.txt", nil, 7)

	result, err := archive.BuildZip(db, store, endpoint, nil, "")
	require.NoError(t, err)
	assert.Empty(t, readZip(t, result.Data))

	var fileDownloads, bulkDownloads int64
	db.Model(&models.FileDownload{}).Count(&fileDownloads)
	db.Model(&models.BulkDownload{}).Count(&bulkDownloads)
	assert.Zero(t, fileDownloads)
	assert.Zero(t, bulkDownloads)
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	name := archive.Filename("Acme Corp", "Q1 POC Upload", at)
	assert.Equal(t, "Acme_Corp-Q1_POC_Upload-2026-03-14-150926.zip", name)
	assert.True(t, strings.HasSuffix(name, ".zip"))
}
