package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/types"
)

// Passkey stores one WebAuthn credential registered by an admin user.
type Passkey struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	CredentialID []byte           `gorm:"column:credential_id;not null;unique"`
	PublicKey    []byte           `gorm:"column:public_key;not null"`
	AAGUID       []byte           `gorm:"column:aaguid"`
	SignCount    uint32           `gorm:"column:sign_count;not null;default:0"`
	Transports   types.StringList `gorm:"column:transports;type:jsonb"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
