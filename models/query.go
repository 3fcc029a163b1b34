package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyDeleted signals an idempotent repeat of a soft delete.
var ErrAlreadyDeleted = errors.New("file is already deleted")

// ActiveFiles returns the endpoint's non-deleted files, newest first.
// Every read path that wants "files that should exist" must go through
// this or ActiveFilesByName so the soft-delete filter cannot be missed.
func ActiveFiles(db *gorm.DB, endpointID uuid.UUID) ([]UploadedFile, error) {
	var files []UploadedFile
	err := db.
		Where("endpoint_id = ? AND deleted_at IS NULL", endpointID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

// ActiveFilesByName returns the endpoint's non-deleted files ordered by
// filename ascending, the archive member order.
func ActiveFilesByName(db *gorm.DB, endpointID uuid.UUID) ([]UploadedFile, error) {
	var files []UploadedFile
	err := db.
		Where("endpoint_id = ? AND deleted_at IS NULL", endpointID).
		Order("filename ASC").
		Find(&files).Error
	return files, err
}

// SoftDeleteFile marks the file deleted exactly once. Repeats return
// ErrAlreadyDeleted without touching the original deletion timestamp.
// The guard re-read and the update share one transaction.
func SoftDeleteFile(db *gorm.DB, fileID uint, deleterIP string) (*UploadedFile, error) {
	var file UploadedFile
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&file, fileID).Error; err != nil {
			return err
		}
		if file.IsDeleted() {
			return ErrAlreadyDeleted
		}
		now := time.Now()
		file.DeletedAt = &now
		file.DeletedByIP = deleterIP
		return tx.Model(&file).Updates(map[string]any{
			"deleted_at":    file.DeletedAt,
			"deleted_by_ip": file.DeletedByIP,
		}).Error
	})
	if err != nil {
		return &file, err
	}
	return &file, nil
}

// RecordFileDownload appends one audit row for an individual file access.
func RecordFileDownload(db *gorm.DB, fileID uint, actor *uuid.UUID, ip string) error {
	return db.Create(&FileDownload{
		FileID:       fileID,
		DownloadedBy: actor,
		DownloadedAt: time.Now(),
		IPAddress:    ip,
	}).Error
}

// RecordBulkDownload appends the summary audit row for a bulk archive.
func RecordBulkDownload(db *gorm.DB, endpointID uuid.UUID, actor *uuid.UUID, ip string, fileCount int, totalBytes int64) error {
	return db.Create(&BulkDownload{
		EndpointID:   endpointID,
		DownloadedBy: actor,
		DownloadedAt: time.Now(),
		IPAddress:    ip,
		FileCount:    fileCount,
		TotalBytes:   totalBytes,
	}).Error
}
