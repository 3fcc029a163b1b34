package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Endpoint status values. Closed set; status is the sole gate for
// upload availability (downloads are never gated by status).
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
	StatusArchived = "archived"
)

// DataEndpoint is a single upload destination scoped to one customer.
// Its id is a random UUID so the shared upload URL is not guessable.
type DataEndpoint struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:20;not null;default:active"`
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time

	Customer Customer       `gorm:"foreignKey:CustomerID"`
	Files    []UploadedFile `gorm:"foreignKey:EndpointID;constraint:OnDelete:CASCADE"`
}

func (e *DataEndpoint) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	return nil
}

// UploadURL returns the path component shared with the customer.
func (e *DataEndpoint) UploadURL() string {
	return "/upload/" + e.ID.String() + "/"
}

// CanUpload reports whether the endpoint currently admits uploads.
func (e *DataEndpoint) CanUpload() bool {
	return e.Status == StatusActive
}

// UploadBlock is the admission gate every upload entry point consults:
// it returns the blocking status (StatusDisabled or StatusArchived) or
// "" when uploads are admitted. Downloads are never status-gated.
func (e *DataEndpoint) UploadBlock() string {
	switch e.Status {
	case StatusDisabled, StatusArchived:
		return e.Status
	}
	return ""
}
