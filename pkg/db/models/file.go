package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/enums"
)

// File is one stored rendition of an upload. The id is minted in the
// application before the disk write so the hashed on-disk name can be derived
// from it; the stored name is never reused, even after deletion.
type File struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OriginalName string              `gorm:"column:original_name;not null"`
	StoredName   string              `gorm:"column:stored_name;not null;unique"`
	MimeType     string              `gorm:"column:mime_type;not null"`
	SizeBytes    int64               `gorm:"column:size_bytes;not null"`
	Folder       enums.MediaFolder   `gorm:"column:folder;not null"`
	Variant      *enums.MediaVariant `gorm:"column:variant"`
	// ParentFileID points thumb/original siblings at their optimized
	// record. Weak reference: only used to find siblings on cascade delete.
	ParentFileID *uuid.UUID `gorm:"column:parent_file_id;type:uuid;index"`
	// AspectRatio (height/width) is stored only on the optimized variant.
	AspectRatio *float64  `gorm:"column:aspect_ratio"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
