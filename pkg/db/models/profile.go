package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/types"
)

// Profile is the site owner's bio. The table holds at most one row.
type Profile struct {
	ID       uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name     types.LocalizedString  `gorm:"column:name;type:jsonb;not null"`
	Blurb    types.LocalizedString  `gorm:"column:blurb;type:jsonb;not null"`
	Role     types.LocalizedString  `gorm:"column:role;type:jsonb;not null"`
	Company  *types.LocalizedString `gorm:"column:company;type:jsonb"`
	Keywords types.StringList       `gorm:"column:keywords;type:jsonb;not null"`

	LinkedinURL *string `gorm:"column:linkedin_url"`
	GithubURL   *string `gorm:"column:github_url"`
	WebsiteURL  *string `gorm:"column:website_url"`
	Email       *string `gorm:"column:email"`
	Phone       *string `gorm:"column:phone"`
	Address     *string `gorm:"column:address"`
	City        *string `gorm:"column:city"`
	State       *string `gorm:"column:state"`
	Zip         *string `gorm:"column:zip"`
	Country     *string `gorm:"column:country"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
