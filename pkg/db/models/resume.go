package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is a stored CV document. At most one row has IsActive = true.
type Resume struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Filename     string    `gorm:"column:filename;not null"`
	OriginalName string    `gorm:"column:original_name;not null"`
	StoredName   string    `gorm:"column:stored_name;not null;unique"`
	MimeType     string    `gorm:"column:mime_type;not null"`
	SizeBytes    int64     `gorm:"column:size_bytes;not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
