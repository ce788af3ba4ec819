package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/types"
)

// Project is one portfolio entry, addressed publicly by its slug key.
type Project struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Key         string                `gorm:"column:key;not null;unique"`
	Name        types.LocalizedString `gorm:"column:name;type:jsonb;not null"`
	Description types.LocalizedString `gorm:"column:description;type:jsonb;not null"`
	Company     types.LocalizedString `gorm:"column:company;type:jsonb;not null"`
	Role        types.LocalizedString `gorm:"column:role;type:jsonb;not null"`
	Year        int                   `gorm:"column:year;not null"`
	Platforms   types.StringList      `gorm:"column:platforms;type:jsonb;not null"`
	Stack       types.StringList      `gorm:"column:stack;type:jsonb;not null"`

	ThumbImgURL      string   `gorm:"column:thumb_img_url;not null"`
	ThumbAspectRatio *float64 `gorm:"column:thumb_aspect_ratio"`
	ThumbVideoURL    *string  `gorm:"column:thumb_video_url"`
	ThumbGifURL      *string  `gorm:"column:thumb_gif_url"`
	BehanceURL       *string  `gorm:"column:behance_url"`
	VideoURL         *string  `gorm:"column:video_url"`
	GithubURL        *string  `gorm:"column:github_url"`
	LiveDemoURL      *string  `gorm:"column:live_demo_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
