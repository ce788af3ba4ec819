package projects

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type stubProjectRepo struct {
	byKey map[string]*models.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byKey: make(map[string]*models.Project)}
}

func (s *stubProjectRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if _, exists := s.byKey[project.Key]; exists {
		return nil, errors.New("duplicate key value violates unique constraint")
	}
	clone := *project
	s.byKey[project.Key] = &clone
	return project, nil
}

func (s *stubProjectRepo) FindByKey(ctx context.Context, key string) (*models.Project, error) {
	project, ok := s.byKey[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *project
	return &clone, nil
}

func (s *stubProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	out := make([]models.Project, 0, len(s.byKey))
	for _, project := range s.byKey {
		out = append(out, *project)
	}
	return out, nil
}

func (s *stubProjectRepo) Save(ctx context.Context, project *models.Project) error {
	clone := *project
	s.byKey[project.Key] = &clone
	return nil
}

func (s *stubProjectRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	for key, project := range s.byKey {
		if project.ID == id {
			delete(s.byKey, key)
		}
	}
	return nil
}

func validCreateInput() CreateInput {
	return CreateInput{
		Key:         "slatefolio",
		Name:        types.LocalizedString{En: "Slatefolio", Es: "Slatefolio", Pt: "Slatefolio"},
		Description: types.LocalizedString{En: "A portfolio backend"},
		Company:     types.LocalizedString{En: "Freelance"},
		Role:        types.LocalizedString{En: "Engineer"},
		Year:        2026,
		Platforms:   types.StringList{"Web"},
		Stack:       types.StringList{"Go", "PostgreSQL"},
		ThumbImgURL: "/files/abc",
	}
}

func TestCreateProject(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubProjectRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	project, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if project.Key != "slatefolio" {
		t.Fatalf("unexpected key %s", project.Key)
	}
}

func TestCreateProjectNormalizesKey(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	input := validCreateInput()
	input.Key = "  My-Project  "

	project, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.Key != "my-project" {
		t.Fatalf("expected normalized slug, got %q", project.Key)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"bad key", func(in *CreateInput) { in.Key = "Not A Slug!" }},
		{"missing name", func(in *CreateInput) { in.Name = types.LocalizedString{} }},
		{"missing year", func(in *CreateInput) { in.Year = 0 }},
		{"missing thumb", func(in *CreateInput) { in.ThumbImgURL = "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.Create(ctx, input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProjectDuplicateKey(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreateInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, validCreateInput())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProjectPartialFields(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	year := 2027
	updated, err := svc.Update(ctx, "slatefolio", UpdateInput{Year: &year})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Year != 2027 {
		t.Fatalf("expected year updated, got %d", updated.Year)
	}
	if updated.Name.En != "Slatefolio" {
		t.Fatal("untouched fields must be preserved")
	}
}

func TestUpdateProjectNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	year := 2027
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Year: &year})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteProjectIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubProjectRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreateInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "slatefolio"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "slatefolio"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := svc.Get(ctx, "slatefolio"); err == nil {
		t.Fatal("expected not-found after delete")
	} else if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}
