package controllers

import (
	"net/http"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/internal/site"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

// SiteMeta reports when site content last changed.
func SiteMeta(svc site.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := svc.Meta(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meta)
	}
}

// AutocompleteSuggestions returns search terms matching the q parameter.
func AutocompleteSuggestions(svc site.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terms, err := svc.Suggestions(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, terms)
	}
}
