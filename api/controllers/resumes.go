package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/api/validators"
	"github.com/jezzlucena/slatefolio/internal/resumes"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

type resumeResponse struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	SizeBytes    int64     `json:"sizeBytes"`
	IsActive     bool      `json:"isActive"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toResumeResponse(resume *models.Resume) resumeResponse {
	return resumeResponse{
		ID:           resume.ID,
		Filename:     resume.Filename,
		OriginalName: resume.OriginalName,
		SizeBytes:    resume.SizeBytes,
		IsActive:     resume.IsActive,
		URL:          "/resume/file/" + resume.ID.String(),
		CreatedAt:    resume.CreatedAt,
		UpdatedAt:    resume.UpdatedAt,
	}
}

// ResumeActive returns metadata for the currently published resume.
func ResumeActive(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resume, err := svc.Active(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toResumeResponse(resume))
	}
}

// ResumeFileActive streams the currently published resume PDF.
func ResumeFileActive(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved, err := svc.ServeActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer resolved.Content.Close()
		writeResolvedFile(w, resolved)
	}
}

// ResumeFile streams a stored resume PDF by id.
func ResumeFile(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resume id"))
			return
		}
		resolved, err := svc.Serve(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer resolved.Content.Close()
		writeResolvedFile(w, resolved)
	}
}

// AdminResumeUpload stores a new resume PDF.
func AdminResumeUpload(svc resumes.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := openMultipartFile(r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		resume, err := svc.Upload(r.Context(), data, header.Filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toResumeResponse(resume))
	}
}

// AdminResumeList returns every stored resume, newest first.
func AdminResumeList(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]resumeResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toResumeResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type resumeRenameRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
}

// AdminResumeRename updates the display name of a stored resume.
func AdminResumeRename(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resume id"))
			return
		}
		var payload resumeRenameRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resume, err := svc.Rename(r.Context(), id, payload.Filename)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toResumeResponse(resume))
	}
}

// AdminResumeActivate publishes one resume and retires the rest.
func AdminResumeActivate(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resume id"))
			return
		}
		resume, err := svc.Activate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toResumeResponse(resume))
	}
}

// AdminResumeDelete removes a stored resume.
func AdminResumeDelete(svc resumes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resume id"))
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
