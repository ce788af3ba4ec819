package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type profileRepository interface {
	FindSingleton(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}

// Service exposes the singleton profile read and upsert.
type Service interface {
	Get(ctx context.Context) (*models.Profile, error)
	Upsert(ctx context.Context, input UpsertInput) (*models.Profile, error)
}

type service struct {
	repo profileRepository
}

// NewService builds a profile service over the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// UpsertInput carries the full profile payload. Required localized fields
// need at least the English string; optional pointers replace when non-nil
// and are left untouched when nil.
type UpsertInput struct {
	Name     types.LocalizedString
	Blurb    types.LocalizedString
	Role     types.LocalizedString
	Company  *types.LocalizedString
	Keywords types.StringList

	LinkedinURL *string
	GithubURL   *string
	WebsiteURL  *string
	Email       *string
	Phone       *string
	Address     *string
	City        *string
	State       *string
	Zip         *string
	Country     *string
}

func (s *service) Get(ctx context.Context) (*models.Profile, error) {
	profile, err := s.repo.FindSingleton(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Profile, error) {
	if strings.TrimSpace(input.Name.En) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name.en is required")
	}
	if strings.TrimSpace(input.Role.En) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role.en is required")
	}

	profile, err := s.repo.FindSingleton(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		profile = &models.Profile{ID: uuid.New()}
	}

	profile.Name = input.Name
	profile.Blurb = input.Blurb
	profile.Role = input.Role
	profile.Company = input.Company
	profile.Keywords = input.Keywords
	if input.LinkedinURL != nil {
		profile.LinkedinURL = input.LinkedinURL
	}
	if input.GithubURL != nil {
		profile.GithubURL = input.GithubURL
	}
	if input.WebsiteURL != nil {
		profile.WebsiteURL = input.WebsiteURL
	}
	if input.Email != nil {
		profile.Email = input.Email
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
	}
	if input.Address != nil {
		profile.Address = input.Address
	}
	if input.City != nil {
		profile.City = input.City
	}
	if input.State != nil {
		profile.State = input.State
	}
	if input.Zip != nil {
		profile.Zip = input.Zip
	}
	if input.Country != nil {
		profile.Country = input.Country
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist profile")
	}
	return profile, nil
}
