package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/jezzlucena/slatefolio/pkg/auth"
	"github.com/jezzlucena/slatefolio/pkg/auth/session"
	"github.com/jezzlucena/slatefolio/pkg/config"
	"github.com/jezzlucena/slatefolio/pkg/db"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type userRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
	Status(ctx context.Context, userID uuid.UUID) (*UserSummary, error)
}

type service struct {
	users       userRepository
	sessions    sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:       params.UserRepo,
		sessions:    params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// RegisterInput captures the bootstrap admin registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries a password login attempt. Identifier matches username or email.
type LoginInput struct {
	Identifier string
	Password   string
}

// AuthResult is a freshly minted session: the signed JWT plus its holder.
type AuthResult struct {
	AccessToken string
	User        UserSummary
}

// UserSummary is the public shape of an admin account.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func summarize(user *models.User) UserSummary {
	return UserSummary{ID: user.ID, Username: user.Username, Email: user.Email}
}

// Register creates the bootstrap admin. Once any user exists, registration
// is closed for good.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if count > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "registration is closed")
	}

	username := strings.TrimSpace(strings.ToLower(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < s.passwordCfg.MinLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", s.passwordCfg.MinLength))
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}

	return s.openSession(ctx, user)
}

// Login verifies a password and mints a session token.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(strings.ToLower(input.Identifier))
	if identifier == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	valid, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.openSession(ctx, user)
}

// Logout revokes the server-side session tied to the token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Status returns the account behind an authenticated request.
func (s *service) Status(ctx context.Context, userID uuid.UUID) (*UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	summary := summarize(user)
	return &summary, nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.sessions.Create(ctx, accessID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	return &AuthResult{AccessToken: token, User: summarize(user)}, nil
}
