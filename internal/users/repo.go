package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes admin-user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID retrieves a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier retrieves a user by username or email.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// First returns the bootstrap admin, the oldest user row.
func (r *Repository) First(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
