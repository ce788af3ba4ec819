package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/middleware"
	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/api/validators"
	"github.com/jezzlucena/slatefolio/internal/auth"
	"github.com/jezzlucena/slatefolio/pkg/config"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token"`
	User  auth.UserSummary `json:"user"`
}

// setSessionCookie parks the freshly minted JWT in an httpOnly cookie so
// browser clients never touch the token from script.
func setSessionCookie(w http.ResponseWriter, cfg config.JWTConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeAuthResult(w http.ResponseWriter, cfg config.JWTConfig, status int, result *auth.AuthResult) {
	setSessionCookie(w, cfg, result.AccessToken)
	responses.WriteSuccessStatus(w, status, authResponse{Token: result.AccessToken, User: result.User})
}

// AuthRegister creates the bootstrap admin account and signs it in.
func AuthRegister(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Register(r.Context(), auth.RegisterInput{
			Username: payload.Username,
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAuthResult(w, cfg, http.StatusCreated, result)
	}
}

// AuthLogin exchanges a username-or-email plus password for a session.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Login(r.Context(), auth.LoginInput{
			Identifier: payload.Identifier,
			Password:   payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAuthResult(w, cfg, http.StatusOK, result)
	}
}

// AuthLogout revokes the caller's session and expires the cookie.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthStatus returns the account behind the current session.
func AuthStatus(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		summary, err := svc.Status(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
