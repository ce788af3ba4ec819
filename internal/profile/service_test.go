package profile

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type stubProfileRepo struct {
	row *models.Profile
}

func (s *stubProfileRepo) FindSingleton(ctx context.Context) (*models.Profile, error) {
	if s.row == nil {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.row
	return &clone, nil
}

func (s *stubProfileRepo) Save(ctx context.Context, profile *models.Profile) error {
	clone := *profile
	s.row = &clone
	return nil
}

func validUpsertInput() UpsertInput {
	return UpsertInput{
		Name:     types.LocalizedString{En: "Jezz Lucena"},
		Blurb:    types.LocalizedString{En: "Full-stack engineer and game developer."},
		Role:     types.LocalizedString{En: "Software Engineer"},
		Keywords: types.StringList{"Go", "TypeScript", "Unity"},
	}
}

func TestGetProfileNotConfigured(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubProfileRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Get(context.Background())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpsertCreatesSingleton(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, validUpsertInput())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.ID != created.ID {
		t.Fatal("expected the created row back")
	}
	if got.Name.En != "Jezz Lucena" {
		t.Fatalf("unexpected name %q", got.Name.En)
	}
}

func TestUpsertReusesExistingRow(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, validUpsertInput())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	input := validUpsertInput()
	input.Role = types.LocalizedString{En: "Staff Engineer"}
	second, err := svc.Upsert(ctx, input)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("upsert must reuse the singleton row")
	}
	if second.Role.En != "Staff Engineer" {
		t.Fatalf("expected role replaced, got %q", second.Role.En)
	}
}

func TestUpsertKeepsOptionalFieldsWhenNil(t *testing.T) {
	t.Parallel()

	repo := &stubProfileRepo{}
	svc, _ := NewService(repo)
	ctx := context.Background()

	email := "jezz@example.com"
	input := validUpsertInput()
	input.Email = &email
	if _, err := svc.Upsert(ctx, input); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	updated, err := svc.Upsert(ctx, validUpsertInput())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.Email == nil || *updated.Email != email {
		t.Fatal("nil optional fields must leave stored values untouched")
	}
}

func TestUpsertValidation(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubProfileRepo{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*UpsertInput)
	}{
		{"missing name", func(in *UpsertInput) { in.Name = types.LocalizedString{} }},
		{"missing role", func(in *UpsertInput) { in.Role = types.LocalizedString{En: "  "} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validUpsertInput()
			tc.mutate(&input)
			_, err := svc.Upsert(ctx, input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
