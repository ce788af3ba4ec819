package testimonials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes testimonial persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a testimonial repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a testimonial.
func (r *Repository) Create(ctx context.Context, testimonial *models.Testimonial) (*models.Testimonial, error) {
	if err := r.db.WithContext(ctx).Create(testimonial).Error; err != nil {
		return nil, err
	}
	return testimonial, nil
}

// FindByKey retrieves a testimonial by its public slug.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.WithContext(ctx).First(&testimonial, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

// List returns every testimonial, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Testimonial, error) {
	var rows []models.Testimonial
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists all fields of an existing testimonial.
func (r *Repository) Save(ctx context.Context, testimonial *models.Testimonial) error {
	return r.db.WithContext(ctx).Save(testimonial).Error
}

// DeleteByID removes a testimonial.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Testimonial{}).Error
}

// LatestUpdatedAt returns the most recently touched testimonial.
func (r *Repository) LatestUpdatedAt(ctx context.Context) (*models.Testimonial, error) {
	var testimonial models.Testimonial
	if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&testimonial).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}
