package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/types"
)

// Testimonial is a quote from a colleague or client, addressed by slug key.
type Testimonial struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Key        string                 `gorm:"column:key;not null;unique"`
	Author     string                 `gorm:"column:author;not null"`
	URL        string                 `gorm:"column:url;not null"`
	Quote      types.LocalizedString  `gorm:"column:quote;type:jsonb;not null"`
	Role       *types.LocalizedString `gorm:"column:role;type:jsonb"`
	Connection types.LocalizedString  `gorm:"column:connection;type:jsonb;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
