package controllers

import (
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/middleware"
	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/internal/auth"
	"github.com/jezzlucena/slatefolio/pkg/config"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

// PasskeyRegisterOptions starts a passkey registration ceremony for the
// signed-in admin.
func PasskeyRegisterOptions(svc auth.PasskeyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		options, err := svc.BeginRegistration(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// PasskeyRegister completes the registration ceremony and stores the credential.
func PasskeyRegister(svc auth.PasskeyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		response, err := protocol.ParseCredentialCreationResponseBody(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed attestation response"))
			return
		}
		if err := svc.FinishRegistration(r.Context(), userID, response); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "registered"})
	}
}

// PasskeyLoginOptions starts a passkey login ceremony.
func PasskeyLoginOptions(svc auth.PasskeyService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := svc.BeginLogin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// PasskeyLogin completes the login ceremony and opens a session, setting the
// same cookie password login does.
func PasskeyLogin(svc auth.PasskeyService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := protocol.ParseCredentialRequestResponseBody(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed assertion response"))
			return
		}
		result, err := svc.FinishLogin(r.Context(), response)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAuthResult(w, cfg, http.StatusOK, result)
	}
}
