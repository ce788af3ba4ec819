package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// PasskeyRepository persists WebAuthn credentials.
type PasskeyRepository struct {
	db *gorm.DB
}

// NewPasskeyRepository constructs a passkey repository bound to the provided GORM DB.
func NewPasskeyRepository(db *gorm.DB) *PasskeyRepository {
	return &PasskeyRepository{db: db}
}

// ListByUser returns all credentials registered by a user.
func (r *PasskeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Passkey, error) {
	var rows []models.Passkey
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a credential.
func (r *PasskeyRepository) Create(ctx context.Context, passkey *models.Passkey) error {
	return r.db.WithContext(ctx).Create(passkey).Error
}

// UpdateSignCount records the authenticator's counter after a successful assertion.
func (r *PasskeyRepository) UpdateSignCount(ctx context.Context, credentialID []byte, signCount uint32) error {
	return r.db.WithContext(ctx).
		Model(&models.Passkey{}).
		Where("credential_id = ?", credentialID).
		Update("sign_count", signCount).Error
}
