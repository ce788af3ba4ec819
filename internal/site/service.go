package site

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
)

type profileReader interface {
	FindSingleton(ctx context.Context) (*models.Profile, error)
}

type projectReader interface {
	List(ctx context.Context) ([]models.Project, error)
	LatestUpdatedAt(ctx context.Context) (*models.Project, error)
}

type testimonialReader interface {
	LatestUpdatedAt(ctx context.Context) (*models.Testimonial, error)
}

type resumeReader interface {
	FindActive(ctx context.Context) (*models.Resume, error)
}

// Service aggregates cross-domain site data: freshness metadata and
// autocomplete suggestions.
type Service interface {
	Meta(ctx context.Context) (*Meta, error)
	Suggestions(ctx context.Context, query string) ([]string, error)
}

type service struct {
	profiles     profileReader
	projects     projectReader
	testimonials testimonialReader
	resumes      resumeReader
}

// NewService builds a site service over the content repositories.
func NewService(profiles profileReader, projects projectReader, testimonials testimonialReader, resumes resumeReader) (Service, error) {
	if profiles == nil || projects == nil || testimonials == nil || resumes == nil {
		return nil, fmt.Errorf("site service requires profile, project, testimonial and resume readers")
	}
	return &service{
		profiles:     profiles,
		projects:     projects,
		testimonials: testimonials,
		resumes:      resumes,
	}, nil
}

// Meta reports when site content last changed, for cache busting and
// sitemap freshness.
type Meta struct {
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *service) Meta(ctx context.Context) (*Meta, error) {
	var latest time.Time

	bump := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}

	profile, err := s.profiles.FindSingleton(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile freshness")
	}
	if profile != nil {
		bump(profile.UpdatedAt)
	}

	project, err := s.projects.LatestUpdatedAt(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project freshness")
	}
	if project != nil {
		bump(project.UpdatedAt)
	}

	testimonial, err := s.testimonials.LatestUpdatedAt(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load testimonial freshness")
	}
	if testimonial != nil {
		bump(testimonial.UpdatedAt)
	}

	resume, err := s.resumes.FindActive(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resume freshness")
	}
	if resume != nil {
		bump(resume.UpdatedAt)
	}

	return &Meta{UpdatedAt: latest}, nil
}

// Suggestions returns the distinct union of profile keywords, project
// platforms and project stacks, filtered by a case-insensitive substring
// match on query and sorted alphabetically.
func (s *service) Suggestions(ctx context.Context, query string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	seen := make(map[string]string)
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" {
			return
		}
		lower := strings.ToLower(term)
		if needle != "" && !strings.Contains(lower, needle) {
			return
		}
		if _, ok := seen[lower]; !ok {
			seen[lower] = term
		}
	}

	profile, err := s.profiles.FindSingleton(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile keywords")
	}
	if profile != nil {
		for _, keyword := range profile.Keywords {
			add(keyword)
		}
	}

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project terms")
	}
	for _, project := range projects {
		for _, platform := range project.Platforms {
			add(platform)
		}
		for _, tech := range project.Stack {
			add(tech)
		}
	}

	out := make([]string, 0, len(seen))
	for _, term := range seen {
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}
