package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes file metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a file repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a file record.
func (r *Repository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// FindByID retrieves a file record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var f models.File
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindChildren returns all records whose parent_file_id points at the id.
func (r *Repository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.File, error) {
	var children []models.File
	if err := r.db.WithContext(ctx).Where("parent_file_id = ?", parentID).Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// Delete removes a file record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{}).Error
}

// ListAll returns every file record, for reconciliation sweeps.
func (r *Repository) ListAll(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := r.db.WithContext(ctx).Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
