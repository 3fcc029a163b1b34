package models

import (
	"time"

	"github.com/google/uuid"
)

// FileDownload is an append-only audit row, one per individual file
// access and one per file included in a bulk archive.
type FileDownload struct {
	ID           uint `gorm:"primaryKey"`
	FileID       uint `gorm:"not null;index"`
	DownloadedBy *uuid.UUID
	DownloadedAt time.Time
	IPAddress    string `gorm:"size:45"`

	File UploadedFile `gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE"`
	User *User        `gorm:"foreignKey:DownloadedBy"`
}

// BulkDownload is an append-only audit row, one per completed bulk
// archive that included at least one file. FileCount and TotalBytes
// reflect the selected active set at build time, not the set that
// made it into the archive when disk and ledger diverge.
type BulkDownload struct {
	ID           uint      `gorm:"primaryKey"`
	EndpointID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DownloadedBy *uuid.UUID
	DownloadedAt time.Time
	IPAddress    string `gorm:"size:45"`
	FileCount    int    `gorm:"not null"`
	TotalBytes   int64  `gorm:"not null"`

	Endpoint DataEndpoint `gorm:"foreignKey:EndpointID;constraint:OnDelete:CASCADE"`
	User     *User        `gorm:"foreignKey:DownloadedBy"`
}
