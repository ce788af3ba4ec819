package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/config"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/types"
)

// Ceremony state has to survive only the browser round-trip.
const challengeTTL = 5 * time.Minute

const (
	challengeKindRegister = "register"
	challengeKindLogin    = "login"
)

type passkeyRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Passkey, error)
	Create(ctx context.Context, passkey *models.Passkey) error
	UpdateSignCount(ctx context.Context, credentialID []byte, signCount uint32) error
}

type bootstrapUserReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	First(ctx context.Context) (*models.User, error)
}

type challengeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type challengeKeyer interface {
	ChallengeKey(kind, id string) string
}

// PasskeyService runs the WebAuthn register and login ceremonies.
type PasskeyService interface {
	BeginRegistration(ctx context.Context, userID uuid.UUID) (*protocol.CredentialCreation, error)
	FinishRegistration(ctx context.Context, userID uuid.UUID, response *protocol.ParsedCredentialCreationData) error
	BeginLogin(ctx context.Context) (*protocol.CredentialAssertion, error)
	FinishLogin(ctx context.Context, response *protocol.ParsedCredentialAssertionData) (*AuthResult, error)
}

type passkeyService struct {
	webAuthn   *webauthn.WebAuthn
	users      bootstrapUserReader
	passkeys   passkeyRepository
	sessions   passkeySessionOpener
	challenges challengeStore
	keyer      challengeKeyer
}

// passkeySessionOpener mints the same JWT+session pair password login does.
type passkeySessionOpener interface {
	openSession(ctx context.Context, user *models.User) (*AuthResult, error)
}

// PasskeyServiceParams bundles the dependencies for NewPasskeyService.
type PasskeyServiceParams struct {
	WebAuthnConfig config.WebAuthnConfig
	UserRepo       bootstrapUserReader
	PasskeyRepo    passkeyRepository
	AuthService    Service
	Challenges     challengeStore
	Keyer          challengeKeyer
}

// NewPasskeyService constructs a WebAuthn ceremony service.
func NewPasskeyService(params PasskeyServiceParams) (PasskeyService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.PasskeyRepo == nil {
		return nil, fmt.Errorf("passkey repository is required")
	}
	if params.Challenges == nil || params.Keyer == nil {
		return nil, fmt.Errorf("challenge store is required")
	}
	opener, ok := params.AuthService.(passkeySessionOpener)
	if !ok {
		return nil, fmt.Errorf("auth service must support session minting")
	}

	webAuthn, err := webauthn.New(&webauthn.Config{
		RPDisplayName: params.WebAuthnConfig.RPDisplayName,
		RPID:          params.WebAuthnConfig.RPID,
		RPOrigins:     []string{params.WebAuthnConfig.RPOrigin},
	})
	if err != nil {
		return nil, fmt.Errorf("webauthn config: %w", err)
	}

	return &passkeyService{
		webAuthn:   webAuthn,
		users:      params.UserRepo,
		passkeys:   params.PasskeyRepo,
		sessions:   opener,
		challenges: params.Challenges,
		keyer:      params.Keyer,
	}, nil
}

// webauthnUser adapts an admin account and its stored credentials to the
// webauthn library's user contract.
type webauthnUser struct {
	user        *models.User
	credentials []webauthn.Credential
}

func (u *webauthnUser) WebAuthnID() []byte                         { return u.user.ID[:] }
func (u *webauthnUser) WebAuthnName() string                       { return u.user.Username }
func (u *webauthnUser) WebAuthnDisplayName() string                { return u.user.Username }
func (u *webauthnUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }
func (u *webauthnUser) WebAuthnIcon() string                       { return "" }

func credentialFromModel(passkey models.Passkey) webauthn.Credential {
	transports := make([]protocol.AuthenticatorTransport, 0, len(passkey.Transports))
	for _, transport := range passkey.Transports {
		transports = append(transports, protocol.AuthenticatorTransport(transport))
	}
	return webauthn.Credential{
		ID:        passkey.CredentialID,
		PublicKey: passkey.PublicKey,
		Transport: transports,
		Authenticator: webauthn.Authenticator{
			AAGUID:    passkey.AAGUID,
			SignCount: passkey.SignCount,
		},
	}
}

func (s *passkeyService) loadWebauthnUser(ctx context.Context, user *models.User) (*webauthnUser, error) {
	passkeys, err := s.passkeys.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list passkeys")
	}
	credentials := make([]webauthn.Credential, 0, len(passkeys))
	for _, passkey := range passkeys {
		credentials = append(credentials, credentialFromModel(passkey))
	}
	return &webauthnUser{user: user, credentials: credentials}, nil
}

// BeginRegistration starts adding a passkey for an authenticated admin.
func (s *passkeyService) BeginRegistration(ctx context.Context, userID uuid.UUID) (*protocol.CredentialCreation, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	waUser, err := s.loadWebauthnUser(ctx, user)
	if err != nil {
		return nil, err
	}

	options, sessionData, err := s.webAuthn.BeginRegistration(waUser)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "begin passkey registration")
	}
	if err := s.parkChallenge(ctx, challengeKindRegister, user.ID.String(), sessionData); err != nil {
		return nil, err
	}
	return options, nil
}

// FinishRegistration validates the attestation and stores the new credential.
func (s *passkeyService) FinishRegistration(ctx context.Context, userID uuid.UUID, response *protocol.ParsedCredentialCreationData) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	waUser, err := s.loadWebauthnUser(ctx, user)
	if err != nil {
		return err
	}

	sessionData, err := s.takeChallenge(ctx, challengeKindRegister, user.ID.String())
	if err != nil {
		return err
	}

	credential, err := s.webAuthn.CreateCredential(waUser, *sessionData, response)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "passkey attestation rejected")
	}

	transports := make(types.StringList, 0, len(credential.Transport))
	for _, transport := range credential.Transport {
		transports = append(transports, string(transport))
	}
	passkey := &models.Passkey{
		ID:           uuid.New(),
		UserID:       user.ID,
		CredentialID: credential.ID,
		PublicKey:    credential.PublicKey,
		AAGUID:       credential.Authenticator.AAGUID,
		SignCount:    credential.Authenticator.SignCount,
		Transports:   transports,
	}
	if err := s.passkeys.Create(ctx, passkey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist passkey")
	}
	return nil
}

// BeginLogin starts a passkey assertion for the bootstrap admin.
func (s *passkeyService) BeginLogin(ctx context.Context) (*protocol.CredentialAssertion, error) {
	user, waUser, err := s.loadAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if len(waUser.credentials) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no passkeys registered")
	}

	options, sessionData, err := s.webAuthn.BeginLogin(waUser)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "begin passkey login")
	}
	if err := s.parkChallenge(ctx, challengeKindLogin, user.ID.String(), sessionData); err != nil {
		return nil, err
	}
	return options, nil
}

// FinishLogin validates the assertion, bumps the sign counter and opens a session.
func (s *passkeyService) FinishLogin(ctx context.Context, response *protocol.ParsedCredentialAssertionData) (*AuthResult, error) {
	user, waUser, err := s.loadAdmin(ctx)
	if err != nil {
		return nil, err
	}

	sessionData, err := s.takeChallenge(ctx, challengeKindLogin, user.ID.String())
	if err != nil {
		return nil, err
	}

	credential, err := s.webAuthn.ValidateLogin(waUser, *sessionData, response)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "passkey assertion rejected")
	}
	if err := s.passkeys.UpdateSignCount(ctx, credential.ID, credential.Authenticator.SignCount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sign count")
	}

	return s.sessions.openSession(ctx, user)
}

// The site has a single admin, so assertions always target the oldest account.
func (s *passkeyService) loadAdmin(ctx context.Context) (*models.User, *webauthnUser, error) {
	user, err := s.users.First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account registered")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	waUser, err := s.loadWebauthnUser(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, waUser, nil
}

func (s *passkeyService) parkChallenge(ctx context.Context, kind, id string, sessionData *webauthn.SessionData) error {
	payload, err := json.Marshal(sessionData)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode challenge")
	}
	if err := s.challenges.Set(ctx, s.keyer.ChallengeKey(kind, id), payload, challengeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "park challenge")
	}
	return nil
}

func (s *passkeyService) takeChallenge(ctx context.Context, kind, id string) (*webauthn.SessionData, error) {
	key := s.keyer.ChallengeKey(kind, id)
	raw, err := s.challenges.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "challenge expired, restart the ceremony")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load challenge")
	}
	// Single use: a replayed response must not find the challenge again.
	if err := s.challenges.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume challenge")
	}

	var sessionData webauthn.SessionData
	if err := json.Unmarshal([]byte(raw), &sessionData); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode challenge")
	}
	return &sessionData, nil
}
