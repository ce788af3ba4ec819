package projects

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

var keyRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	FindByKey(ctx context.Context, key string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Service exposes project CRUD keyed by public slug.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Project, error)
	Get(ctx context.Context, key string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, key string, input UpdateInput) (*models.Project, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo projectRepository
}

// NewService builds a project service over the provided repository.
func NewService(repo projectRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("project repository required")
	}
	return &service{repo: repo}, nil
}

// CreateInput captures a new project. Localized fields require at least the
// English string; other locales fall back to it on the front-end.
type CreateInput struct {
	Key         string
	Name        types.LocalizedString
	Description types.LocalizedString
	Company     types.LocalizedString
	Role        types.LocalizedString
	Year        int
	Platforms   types.StringList
	Stack       types.StringList

	ThumbImgURL      string
	ThumbAspectRatio *float64
	ThumbVideoURL    *string
	ThumbGifURL      *string
	BehanceURL       *string
	VideoURL         *string
	GithubURL        *string
	LiveDemoURL      *string
}

// UpdateInput carries optional replacements; nil fields are left untouched.
type UpdateInput struct {
	Name        *types.LocalizedString
	Description *types.LocalizedString
	Company     *types.LocalizedString
	Role        *types.LocalizedString
	Year        *int
	Platforms   *types.StringList
	Stack       *types.StringList

	ThumbImgURL      *string
	ThumbAspectRatio *float64
	ThumbVideoURL    *string
	ThumbGifURL      *string
	BehanceURL       *string
	VideoURL         *string
	GithubURL        *string
	LiveDemoURL      *string
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Project, error) {
	key := strings.TrimSpace(strings.ToLower(input.Key))
	if !keyRe.MatchString(key) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key must be a lowercase slug")
	}
	if input.Name.En == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name.en is required")
	}
	if input.Year <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is required")
	}
	if strings.TrimSpace(input.ThumbImgURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thumb_img_url is required")
	}

	project := &models.Project{
		ID:               uuid.New(),
		Key:              key,
		Name:             input.Name,
		Description:      input.Description,
		Company:          input.Company,
		Role:             input.Role,
		Year:             input.Year,
		Platforms:        input.Platforms,
		Stack:            input.Stack,
		ThumbImgURL:      strings.TrimSpace(input.ThumbImgURL),
		ThumbAspectRatio: input.ThumbAspectRatio,
		ThumbVideoURL:    input.ThumbVideoURL,
		ThumbGifURL:      input.ThumbGifURL,
		BehanceURL:       input.BehanceURL,
		VideoURL:         input.VideoURL,
		GithubURL:        input.GithubURL,
		LiveDemoURL:      input.LiveDemoURL,
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "project key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist project")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, key string) (*models.Project, error) {
	return s.mustFind(ctx, key)
}

func (s *service) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, key string, input UpdateInput) (*models.Project, error) {
	project, err := s.mustFind(ctx, key)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if input.Name.En == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name.en is required")
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Company != nil {
		project.Company = *input.Company
	}
	if input.Role != nil {
		project.Role = *input.Role
	}
	if input.Year != nil {
		if *input.Year <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "year must be positive")
		}
		project.Year = *input.Year
	}
	if input.Platforms != nil {
		project.Platforms = *input.Platforms
	}
	if input.Stack != nil {
		project.Stack = *input.Stack
	}
	if input.ThumbImgURL != nil {
		if strings.TrimSpace(*input.ThumbImgURL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "thumb_img_url cannot be empty")
		}
		project.ThumbImgURL = strings.TrimSpace(*input.ThumbImgURL)
	}
	if input.ThumbAspectRatio != nil {
		project.ThumbAspectRatio = input.ThumbAspectRatio
	}
	if input.ThumbVideoURL != nil {
		project.ThumbVideoURL = input.ThumbVideoURL
	}
	if input.ThumbGifURL != nil {
		project.ThumbGifURL = input.ThumbGifURL
	}
	if input.BehanceURL != nil {
		project.BehanceURL = input.BehanceURL
	}
	if input.VideoURL != nil {
		project.VideoURL = input.VideoURL
	}
	if input.GithubURL != nil {
		project.GithubURL = input.GithubURL
	}
	if input.LiveDemoURL != nil {
		project.LiveDemoURL = input.LiveDemoURL
	}

	if err := s.repo.Save(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	project, err := s.repo.FindByKey(ctx, strings.TrimSpace(strings.ToLower(key)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if err := s.repo.DeleteByID(ctx, project.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, key string) (*models.Project, error) {
	clean := strings.TrimSpace(strings.ToLower(key))
	if clean == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	project, err := s.repo.FindByKey(ctx, clean)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return project, nil
}
