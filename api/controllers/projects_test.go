package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/internal/projects"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type stubProjectService struct {
	project *models.Project
	list    []models.Project
	err     error

	lastCreate projects.CreateInput
	deletedKey string
}

func (s *stubProjectService) Create(ctx context.Context, input projects.CreateInput) (*models.Project, error) {
	s.lastCreate = input
	return s.project, s.err
}

func (s *stubProjectService) Get(ctx context.Context, key string) (*models.Project, error) {
	return s.project, s.err
}

func (s *stubProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.list, s.err
}

func (s *stubProjectService) Update(ctx context.Context, key string, input projects.UpdateInput) (*models.Project, error) {
	return s.project, s.err
}

func (s *stubProjectService) Delete(ctx context.Context, key string) error {
	s.deletedKey = key
	return s.err
}

func routeWithKey(t *testing.T, method, pattern string, handler http.HandlerFunc, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAdminProjectCreateReturnsCreated(t *testing.T) {
	stored := &models.Project{
		ID:          uuid.New(),
		Key:         "gravity-well",
		Name:        types.LocalizedString{En: "Gravity Well"},
		Year:        2024,
		Platforms:   types.StringList{"Web"},
		Stack:       types.StringList{"Go", "Unity"},
		ThumbImgURL: "/files/abc",
	}
	svc := &stubProjectService{project: stored}
	handler := AdminProjectCreate(svc, nil)

	payload := []byte(`{"key":"gravity-well","name":{"en":"Gravity Well"},"year":2024,"platforms":["Web"],"stack":["Go","Unity"],"thumbImgUrl":"/files/abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/projects", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate.Key != "gravity-well" {
		t.Fatalf("expected input key forwarded, got %q", svc.lastCreate.Key)
	}
	if svc.lastCreate.Name.En != "Gravity Well" {
		t.Fatalf("expected localized name forwarded, got %+v", svc.lastCreate.Name)
	}

	var envelope struct {
		Data projectResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Key != "gravity-well" || envelope.Data.ThumbImgURL != "/files/abc" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminProjectCreateRejectsMissingFields(t *testing.T) {
	handler := AdminProjectCreate(&stubProjectService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/projects", bytes.NewReader([]byte(`{"year":2024}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProjectGetNotFound(t *testing.T) {
	svc := &stubProjectService{err: pkgerrors.New(pkgerrors.CodeNotFound, "project not found")}
	resp := routeWithKey(t, http.MethodGet, "/projects/{key}", ProjectGet(svc, nil), "/projects/missing", nil)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestProjectListMapsResponses(t *testing.T) {
	svc := &stubProjectService{list: []models.Project{
		{ID: uuid.New(), Key: "alpha", Name: types.LocalizedString{En: "Alpha"}, Year: 2020},
		{ID: uuid.New(), Key: "beta", Name: types.LocalizedString{En: "Beta"}, Year: 2021},
	}}
	handler := ProjectList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []projectResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Key != "alpha" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminProjectDeleteForwardsKey(t *testing.T) {
	svc := &stubProjectService{}
	resp := routeWithKey(t, http.MethodDelete, "/admin/projects/{key}", AdminProjectDelete(svc, nil), "/admin/projects/alpha", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.deletedKey != "alpha" {
		t.Fatalf("expected delete forwarded for alpha, got %q", svc.deletedKey)
	}
}
