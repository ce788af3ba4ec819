package resumes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes resume metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a resume repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a resume record.
func (r *Repository) Create(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return nil, err
	}
	return resume, nil
}

// FindByID retrieves a resume record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

// FindActive returns the currently active resume, if any.
func (r *Repository) FindActive(ctx context.Context) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).First(&resume, "is_active = ?", true).Error; err != nil {
		return nil, err
	}
	return &resume, nil
}

// List returns every resume, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Resume, error) {
	var rows []models.Resume
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFilename changes the editable display name.
func (r *Repository) UpdateFilename(ctx context.Context, id uuid.UUID, filename string) error {
	return r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("id = ?", id).
		Update("filename", filename).Error
}

// ActivateExclusive flips the target resume active and every other resume
// inactive inside the supplied transaction, so readers never observe two
// active rows.
func (r *Repository) ActivateExclusive(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Model(&models.Resume{}).
		Where("is_active = ?", true).
		Where("id <> ?", id).
		Update("is_active", false).Error; err != nil {
		return err
	}
	result := tx.Model(&models.Resume{}).
		Where("id = ?", id).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a resume record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Resume{}).Error
}

// ListAll returns every resume record, for reconciliation sweeps.
func (r *Repository) ListAll(ctx context.Context) ([]models.Resume, error) {
	var rows []models.Resume
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
