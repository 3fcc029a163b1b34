package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadedFile is one ledger row per stored file. Rows are never
// physically deleted; deletion is recorded by setting DeletedAt.
type UploadedFile struct {
	ID            uint      `gorm:"primaryKey"`
	EndpointID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename      string    `gorm:"size:255;not null"`
	FilePath      string    `gorm:"size:500;not null;uniqueIndex"` // relative to the media root
	FileSizeBytes int64     `gorm:"not null"`
	ContentType   string    `gorm:"size:255"`
	UploadedAt    time.Time
	UploadedByIP  string `gorm:"size:45"`

	DeletedAt   *time.Time
	DeletedByIP string `gorm:"size:45"`

	Endpoint DataEndpoint `gorm:"foreignKey:EndpointID"`
}

// IsDeleted is derived strictly from the deletion timestamp.
func (f *UploadedFile) IsDeleted() bool {
	return f.DeletedAt != nil
}
