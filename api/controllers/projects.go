package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/api/validators"
	"github.com/jezzlucena/slatefolio/internal/projects"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type projectCreateRequest struct {
	Key         string                `json:"key" validate:"required,min=1,max=100"`
	Name        types.LocalizedString `json:"name" validate:"required"`
	Description types.LocalizedString `json:"description"`
	Company     types.LocalizedString `json:"company"`
	Role        types.LocalizedString `json:"role"`
	Year        int                   `json:"year" validate:"required"`
	Platforms   types.StringList      `json:"platforms"`
	Stack       types.StringList      `json:"stack"`

	ThumbImgURL      string   `json:"thumbImgUrl" validate:"required"`
	ThumbAspectRatio *float64 `json:"thumbAspectRatio"`
	ThumbVideoURL    *string  `json:"thumbVideoUrl"`
	ThumbGifURL      *string  `json:"thumbGifUrl"`
	BehanceURL       *string  `json:"behanceUrl"`
	VideoURL         *string  `json:"videoUrl"`
	GithubURL        *string  `json:"githubUrl"`
	LiveDemoURL      *string  `json:"liveDemoUrl"`
}

type projectUpdateRequest struct {
	Name        *types.LocalizedString `json:"name"`
	Description *types.LocalizedString `json:"description"`
	Company     *types.LocalizedString `json:"company"`
	Role        *types.LocalizedString `json:"role"`
	Year        *int                   `json:"year"`
	Platforms   *types.StringList      `json:"platforms"`
	Stack       *types.StringList      `json:"stack"`

	ThumbImgURL      *string  `json:"thumbImgUrl"`
	ThumbAspectRatio *float64 `json:"thumbAspectRatio"`
	ThumbVideoURL    *string  `json:"thumbVideoUrl"`
	ThumbGifURL      *string  `json:"thumbGifUrl"`
	BehanceURL       *string  `json:"behanceUrl"`
	VideoURL         *string  `json:"videoUrl"`
	GithubURL        *string  `json:"githubUrl"`
	LiveDemoURL      *string  `json:"liveDemoUrl"`
}

type projectResponse struct {
	ID          uuid.UUID             `json:"id"`
	Key         string                `json:"key"`
	Name        types.LocalizedString `json:"name"`
	Description types.LocalizedString `json:"description"`
	Company     types.LocalizedString `json:"company"`
	Role        types.LocalizedString `json:"role"`
	Year        int                   `json:"year"`
	Platforms   types.StringList      `json:"platforms"`
	Stack       types.StringList      `json:"stack"`

	ThumbImgURL      string   `json:"thumbImgUrl"`
	ThumbAspectRatio *float64 `json:"thumbAspectRatio,omitempty"`
	ThumbVideoURL    *string  `json:"thumbVideoUrl,omitempty"`
	ThumbGifURL      *string  `json:"thumbGifUrl,omitempty"`
	BehanceURL       *string  `json:"behanceUrl,omitempty"`
	VideoURL         *string  `json:"videoUrl,omitempty"`
	GithubURL        *string  `json:"githubUrl,omitempty"`
	LiveDemoURL      *string  `json:"liveDemoUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:               project.ID,
		Key:              project.Key,
		Name:             project.Name,
		Description:      project.Description,
		Company:          project.Company,
		Role:             project.Role,
		Year:             project.Year,
		Platforms:        project.Platforms,
		Stack:            project.Stack,
		ThumbImgURL:      project.ThumbImgURL,
		ThumbAspectRatio: project.ThumbAspectRatio,
		ThumbVideoURL:    project.ThumbVideoURL,
		ThumbGifURL:      project.ThumbGifURL,
		BehanceURL:       project.BehanceURL,
		VideoURL:         project.VideoURL,
		GithubURL:        project.GithubURL,
		LiveDemoURL:      project.LiveDemoURL,
		CreatedAt:        project.CreatedAt,
		UpdatedAt:        project.UpdatedAt,
	}
}

// ProjectList returns every project for the public portfolio grid.
func ProjectList(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]projectResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toProjectResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProjectGet returns one project by its slug.
func ProjectGet(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := svc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProjectResponse(project))
	}
}

// AdminProjectCreate creates a project.
func AdminProjectCreate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload projectCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		project, err := svc.Create(r.Context(), projects.CreateInput{
			Key:              payload.Key,
			Name:             payload.Name,
			Description:      payload.Description,
			Company:          payload.Company,
			Role:             payload.Role,
			Year:             payload.Year,
			Platforms:        payload.Platforms,
			Stack:            payload.Stack,
			ThumbImgURL:      payload.ThumbImgURL,
			ThumbAspectRatio: payload.ThumbAspectRatio,
			ThumbVideoURL:    payload.ThumbVideoURL,
			ThumbGifURL:      payload.ThumbGifURL,
			BehanceURL:       payload.BehanceURL,
			VideoURL:         payload.VideoURL,
			GithubURL:        payload.GithubURL,
			LiveDemoURL:      payload.LiveDemoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProjectResponse(project))
	}
}

// AdminProjectUpdate applies a partial update to a project.
func AdminProjectUpdate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload projectUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		project, err := svc.Update(r.Context(), chi.URLParam(r, "key"), projects.UpdateInput{
			Name:             payload.Name,
			Description:      payload.Description,
			Company:          payload.Company,
			Role:             payload.Role,
			Year:             payload.Year,
			Platforms:        payload.Platforms,
			Stack:            payload.Stack,
			ThumbImgURL:      payload.ThumbImgURL,
			ThumbAspectRatio: payload.ThumbAspectRatio,
			ThumbVideoURL:    payload.ThumbVideoURL,
			ThumbGifURL:      payload.ThumbGifURL,
			BehanceURL:       payload.BehanceURL,
			VideoURL:         payload.VideoURL,
			GithubURL:        payload.GithubURL,
			LiveDemoURL:      payload.LiveDemoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProjectResponse(project))
	}
}

// AdminProjectDelete removes a project. Deleting twice is a no-op.
func AdminProjectDelete(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
