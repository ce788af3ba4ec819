package controllers

import (
	"net/http"
	"time"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/api/validators"
	"github.com/jezzlucena/slatefolio/internal/profile"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

type profileUpsertRequest struct {
	Name     types.LocalizedString  `json:"name" validate:"required"`
	Blurb    types.LocalizedString  `json:"blurb"`
	Role     types.LocalizedString  `json:"role" validate:"required"`
	Company  *types.LocalizedString `json:"company"`
	Keywords types.StringList       `json:"keywords"`

	LinkedinURL *string `json:"linkedinUrl"`
	GithubURL   *string `json:"githubUrl"`
	WebsiteURL  *string `json:"websiteUrl"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Zip         *string `json:"zip"`
	Country     *string `json:"country"`
}

type profileResponse struct {
	Name     types.LocalizedString  `json:"name"`
	Blurb    types.LocalizedString  `json:"blurb"`
	Role     types.LocalizedString  `json:"role"`
	Company  *types.LocalizedString `json:"company,omitempty"`
	Keywords types.StringList       `json:"keywords"`

	LinkedinURL *string `json:"linkedinUrl,omitempty"`
	GithubURL   *string `json:"githubUrl,omitempty"`
	WebsiteURL  *string `json:"websiteUrl,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Zip         *string `json:"zip,omitempty"`
	Country     *string `json:"country,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		Name:        p.Name,
		Blurb:       p.Blurb,
		Role:        p.Role,
		Company:     p.Company,
		Keywords:    p.Keywords,
		LinkedinURL: p.LinkedinURL,
		GithubURL:   p.GithubURL,
		WebsiteURL:  p.WebsiteURL,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		Zip:         p.Zip,
		Country:     p.Country,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProfileGet returns the site owner's profile.
func ProfileGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileResponse(p))
	}
}

// AdminProfileUpsert creates or replaces the singleton profile.
func AdminProfileUpsert(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload profileUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := svc.Upsert(r.Context(), profile.UpsertInput{
			Name:        payload.Name,
			Blurb:       payload.Blurb,
			Role:        payload.Role,
			Company:     payload.Company,
			Keywords:    payload.Keywords,
			LinkedinURL: payload.LinkedinURL,
			GithubURL:   payload.GithubURL,
			WebsiteURL:  payload.WebsiteURL,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Address:     payload.Address,
			City:        payload.City,
			State:       payload.State,
			Zip:         payload.Zip,
			Country:     payload.Country,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProfileResponse(p))
	}
}
