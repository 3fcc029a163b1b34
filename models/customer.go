package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an organization that owns one or more data endpoints.
type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Notes     string `gorm:"type:text"`
	CreatedBy *uuid.UUID
	CreatedAt time.Time

	Creator   *User          `gorm:"foreignKey:CreatedBy"`
	Endpoints []DataEndpoint `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}
