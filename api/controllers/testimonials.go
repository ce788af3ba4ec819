package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/api/validators"
	"github.com/jezzlucena/slatefolio/internal/testimonials"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type testimonialCreateRequest struct {
	Key        string                 `json:"key" validate:"required,min=1,max=100"`
	Author     string                 `json:"author" validate:"required"`
	URL        string                 `json:"url"`
	Quote      types.LocalizedString  `json:"quote" validate:"required"`
	Role       *types.LocalizedString `json:"role"`
	Connection types.LocalizedString  `json:"connection"`
}

type testimonialUpdateRequest struct {
	Author     *string                `json:"author"`
	URL        *string                `json:"url"`
	Quote      *types.LocalizedString `json:"quote"`
	Role       *types.LocalizedString `json:"role"`
	Connection *types.LocalizedString `json:"connection"`
}

type testimonialResponse struct {
	ID         uuid.UUID              `json:"id"`
	Key        string                 `json:"key"`
	Author     string                 `json:"author"`
	URL        string                 `json:"url"`
	Quote      types.LocalizedString  `json:"quote"`
	Role       *types.LocalizedString `json:"role,omitempty"`
	Connection types.LocalizedString  `json:"connection"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

func toTestimonialResponse(testimonial *models.Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:         testimonial.ID,
		Key:        testimonial.Key,
		Author:     testimonial.Author,
		URL:        testimonial.URL,
		Quote:      testimonial.Quote,
		Role:       testimonial.Role,
		Connection: testimonial.Connection,
		CreatedAt:  testimonial.CreatedAt,
		UpdatedAt:  testimonial.UpdatedAt,
	}
}

// TestimonialList returns every testimonial.
func TestimonialList(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]testimonialResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toTestimonialResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// TestimonialGet returns one testimonial by its slug.
func TestimonialGet(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testimonial, err := svc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTestimonialResponse(testimonial))
	}
}

// AdminTestimonialCreate creates a testimonial.
func AdminTestimonialCreate(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload testimonialCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		testimonial, err := svc.Create(r.Context(), testimonials.CreateInput{
			Key:        payload.Key,
			Author:     payload.Author,
			URL:        payload.URL,
			Quote:      payload.Quote,
			Role:       payload.Role,
			Connection: payload.Connection,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toTestimonialResponse(testimonial))
	}
}

// AdminTestimonialUpdate applies a partial update to a testimonial.
func AdminTestimonialUpdate(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload testimonialUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		testimonial, err := svc.Update(r.Context(), chi.URLParam(r, "key"), testimonials.UpdateInput{
			Author:     payload.Author,
			URL:        payload.URL,
			Quote:      payload.Quote,
			Role:       payload.Role,
			Connection: payload.Connection,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTestimonialResponse(testimonial))
	}
}

// AdminTestimonialDelete removes a testimonial. Deleting twice is a no-op.
func AdminTestimonialDelete(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
