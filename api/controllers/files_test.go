package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/internal/media"
	"github.com/jezzlucena/slatefolio/pkg/enums"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
)

type stubMediaService struct {
	resolved *media.ResolvedFile
	result   *media.IngestResult
	evicted  int
	err      error

	evictedID uuid.UUID
}

func (s *stubMediaService) Ingest(ctx context.Context, input media.IngestInput) (*media.IngestResult, error) {
	return s.result, s.err
}

func (s *stubMediaService) Resolve(ctx context.Context, id uuid.UUID) (*media.ResolvedFile, error) {
	return s.resolved, s.err
}

func (s *stubMediaService) Evict(ctx context.Context, id uuid.UUID) (int, error) {
	s.evictedID = id
	return s.evicted, s.err
}

func serveFile(t *testing.T, svc media.Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/files/{id}", FileServe(svc, nil))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestFileServeStreamsWithImmutableCache(t *testing.T) {
	svc := &stubMediaService{resolved: &media.ResolvedFile{
		Content:      io.NopCloser(strings.NewReader("webp-bytes")),
		MimeType:     "image/webp",
		OriginalName: "sunset.png",
		SizeBytes:    10,
		Folder:       enums.MediaFolderImages,
	}}

	resp := serveFile(t, svc, "/files/"+uuid.NewString())

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
		t.Fatalf("unexpected cache header %q", got)
	}
	if got := resp.Header().Get("Content-Type"); got != "image/webp" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `inline; filename="sunset.png"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if resp.Body.String() != "webp-bytes" {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}

func TestFileServeRejectsBadID(t *testing.T) {
	resp := serveFile(t, &stubMediaService{}, "/files/not-a-uuid")

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFileServeMissingRecord(t *testing.T) {
	svc := &stubMediaService{err: pkgerrors.New(pkgerrors.CodeNotFound, "file not found")}
	resp := serveFile(t, svc, "/files/"+uuid.NewString())

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminUploadDeleteByURL(t *testing.T) {
	id := uuid.New()
	svc := &stubMediaService{evicted: 3}
	handler := AdminUploadDelete(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/admin/upload?url=/files/"+id.String(), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.evictedID != id {
		t.Fatalf("expected eviction of %s, got %s", id, svc.evictedID)
	}
}

func TestAdminUploadDeleteByBody(t *testing.T) {
	id := uuid.New()
	svc := &stubMediaService{evicted: 1}
	handler := AdminUploadDelete(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/admin/upload", strings.NewReader(`{"id":"`+id.String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.evictedID != id {
		t.Fatalf("expected eviction of %s, got %s", id, svc.evictedID)
	}
}

func TestAdminUploadDeleteWithoutTarget(t *testing.T) {
	handler := AdminUploadDelete(&stubMediaService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/admin/upload", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
