package profile

import (
	"context"

	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes profile persistence. The profiles table holds at most
// one row, so reads and writes always target the singleton.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profile repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindSingleton retrieves the profile row, if one exists.
func (r *Repository) FindSingleton(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save persists all fields of the profile, creating the row when absent.
func (r *Repository) Save(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
