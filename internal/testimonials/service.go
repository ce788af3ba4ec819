package testimonials

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

type testimonialRepository interface {
	Create(ctx context.Context, testimonial *models.Testimonial) (*models.Testimonial, error)
	FindByKey(ctx context.Context, key string) (*models.Testimonial, error)
	List(ctx context.Context) ([]models.Testimonial, error)
	Save(ctx context.Context, testimonial *models.Testimonial) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Service exposes testimonial CRUD keyed by public slug.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Testimonial, error)
	Get(ctx context.Context, key string) (*models.Testimonial, error)
	List(ctx context.Context) ([]models.Testimonial, error)
	Update(ctx context.Context, key string, input UpdateInput) (*models.Testimonial, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo testimonialRepository
}

// NewService builds a testimonial service over the provided repository.
func NewService(repo testimonialRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("testimonial repository required")
	}
	return &service{repo: repo}, nil
}

// CreateInput captures a new testimonial.
type CreateInput struct {
	Key        string
	Author     string
	URL        string
	Quote      types.LocalizedString
	Role       *types.LocalizedString
	Connection types.LocalizedString
}

// UpdateInput carries optional replacements; nil fields are left untouched.
type UpdateInput struct {
	Author     *string
	URL        *string
	Quote      *types.LocalizedString
	Role       *types.LocalizedString
	Connection *types.LocalizedString
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Testimonial, error) {
	key := strings.TrimSpace(strings.ToLower(input.Key))
	if !keyRe.MatchString(key) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key must be a lowercase slug")
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if input.Quote.En == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote.en is required")
	}

	testimonial := &models.Testimonial{
		ID:         uuid.New(),
		Key:        key,
		Author:     author,
		URL:        strings.TrimSpace(input.URL),
		Quote:      input.Quote,
		Role:       input.Role,
		Connection: input.Connection,
	}

	created, err := s.repo.Create(ctx, testimonial)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "testimonial key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist testimonial")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, key string) (*models.Testimonial, error) {
	return s.mustFind(ctx, key)
}

func (s *service) List(ctx context.Context) ([]models.Testimonial, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list testimonials")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, key string, input UpdateInput) (*models.Testimonial, error) {
	testimonial, err := s.mustFind(ctx, key)
	if err != nil {
		return nil, err
	}

	if input.Author != nil {
		author := strings.TrimSpace(*input.Author)
		if author == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "author cannot be empty")
		}
		testimonial.Author = author
	}
	if input.URL != nil {
		testimonial.URL = strings.TrimSpace(*input.URL)
	}
	if input.Quote != nil {
		if input.Quote.En == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote.en is required")
		}
		testimonial.Quote = *input.Quote
	}
	if input.Role != nil {
		testimonial.Role = input.Role
	}
	if input.Connection != nil {
		testimonial.Connection = *input.Connection
	}

	if err := s.repo.Save(ctx, testimonial); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update testimonial")
	}
	return testimonial, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	testimonial, err := s.repo.FindByKey(ctx, strings.TrimSpace(strings.ToLower(key)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load testimonial")
	}
	if err := s.repo.DeleteByID(ctx, testimonial.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete testimonial")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, key string) (*models.Testimonial, error) {
	clean := strings.TrimSpace(strings.ToLower(key))
	if clean == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	testimonial, err := s.repo.FindByKey(ctx, clean)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load testimonial")
	}
	return testimonial, nil
}
