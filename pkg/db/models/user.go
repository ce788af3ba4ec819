package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin account. The site supports a single bootstrap admin;
// registration closes once any row exists.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Username     string    `gorm:"column:username;not null;unique"`
	Email        string    `gorm:"column:email;not null;unique"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
