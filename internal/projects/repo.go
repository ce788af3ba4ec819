package projects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
)

// Repository exposes project persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a project repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a project.
func (r *Repository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// FindByKey retrieves a project by its public slug.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns every project, newest year first, then newest record first.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	var rows []models.Project
	if err := r.db.WithContext(ctx).Order("year DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists all fields of an existing project.
func (r *Repository) Save(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// DeleteByID removes a project.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Project{}).Error
}

// LatestUpdatedAt returns the most recent updated_at across all projects.
func (r *Repository) LatestUpdatedAt(ctx context.Context) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
