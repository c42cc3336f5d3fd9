package login

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
)

// Service implements password-based signup and login on top of the user
// store. All login failures surface as the same invalid-credentials error
// so callers cannot probe which accounts exist.
type Service struct {
	users          user.Repository
	sessionService *sessions.Service
	hasher         PasswordHasher
}

// Option is a function that configures a Service
type Option func(*Service)

// WithPasswordHasher overrides the default bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = hasher
	}
}

// NewService creates a new login service
func NewService(users user.Repository, sessionService *sessions.Service, options ...Option) *Service {
	s := &Service{
		users:          users,
		sessionService: sessionService,
		hasher:         NewBcryptHasher(),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Signup registers a new credentialed user and returns its ID. Email and
// phone may be supplied together; the user carries both. Phone numbers are
// normalized to E.164 before the duplicate check so the same number in
// different notations cannot create two accounts.
func (s *Service) Signup(ctx context.Context, params SignupParams) (uuid.UUID, error) {
	if params.Password == "" {
		return uuid.Nil, idmerr.InvalidInput("password", "cannot be empty")
	}
	if params.Email == "" && params.Phone == "" {
		return uuid.Nil, idmerr.InvalidInput("email/phone", "at least one of email or phone is required")
	}

	phone := ""
	if params.Phone != "" {
		normalized, err := NormalizePhone(params.CountryCode, params.Phone)
		if err != nil {
			return uuid.Nil, err
		}
		phone = normalized
	}

	if params.Email != "" {
		if err := s.checkAvailable(ctx, s.users.FindByEmail, params.Email); err != nil {
			return uuid.Nil, err
		}
	}
	if phone != "" {
		if err := s.checkAvailable(ctx, s.users.FindByPhone, phone); err != nil {
			return uuid.Nil, err
		}
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return uuid.Nil, idmerr.Wrap(err, idmerr.ErrCodeInternal, "failed to hash password")
	}

	createParams := user.CreateUserParams{
		PasswordHash: &hash,
	}
	if params.Email != "" {
		email := params.Email
		createParams.Email = &email
	}
	if phone != "" {
		p := phone
		createParams.Phone = &p
		if params.CountryCode != "" {
			cc := params.CountryCode
			createParams.CountryCode = &cc
		}
	}
	if params.Name != "" {
		name := params.Name
		createParams.Name = &name
	}

	u, err := s.users.Create(ctx, createParams)
	if err != nil {
		// A conflict here means a concurrent signup won the race
		if idmerr.IsCode(err, idmerr.ErrCodeConflict) {
			return uuid.Nil, idmerr.New(idmerr.ErrCodeUserAlreadyExists, "user already exists")
		}
		return uuid.Nil, err
	}

	slog.Info("User signed up", "userId", u.ID)
	return u.ID, nil
}

// Login verifies credentials and issues a fresh session. Unknown
// identifier, wrong password and password-less (OTP-only) accounts all
// return the same invalid-credentials error.
func (s *Service) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	if params.Password == "" {
		return LoginResult{}, invalidCredentials()
	}

	identifier, byEmail, err := s.resolveIdentifier(params.Email, params.Phone, params.CountryCode)
	if err != nil {
		// Malformed identifiers are indistinguishable from bad credentials
		if idmerr.IsCode(err, idmerr.ErrCodeInvalidPhoneNumber) {
			return LoginResult{}, invalidCredentials()
		}
		return LoginResult{}, err
	}

	find := s.users.FindByPhone
	if byEmail {
		find = s.users.FindByEmail
	}

	u, err := find(ctx, identifier)
	if err != nil {
		if idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
			return LoginResult{}, invalidCredentials()
		}
		return LoginResult{}, err
	}

	if u.PasswordHash == nil {
		return LoginResult{}, invalidCredentials()
	}

	ok, err := s.hasher.Verify(params.Password, *u.PasswordHash)
	if err != nil {
		slog.Error("Failed to verify password hash", "userId", u.ID, "err", err)
		return LoginResult{}, invalidCredentials()
	}
	if !ok {
		return LoginResult{}, invalidCredentials()
	}

	tokenPair, err := s.sessionService.CreateSession(ctx, u.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		User:   u.Summary(),
		Tokens: tokenPair,
	}, nil
}

// GetMe returns the redacted profile of the authenticated user
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.Summary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.Summary{}, err
	}
	return u.Summary(), nil
}

// checkAvailable ensures no existing user owns the given identifier.
func (s *Service) checkAvailable(ctx context.Context, find func(context.Context, string) (user.User, error), identifier string) error {
	_, err := find(ctx, identifier)
	if err == nil {
		return idmerr.New(idmerr.ErrCodeUserAlreadyExists, "user already exists")
	}
	if !idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
		return err
	}
	return nil
}

// resolveIdentifier picks the canonical lookup key from the email/phone
// pair and reports which kind it is. Email wins when both are present.
func (s *Service) resolveIdentifier(email, phone, countryCode string) (string, bool, error) {
	switch {
	case email != "":
		return email, true, nil
	case phone != "":
		normalized, err := NormalizePhone(countryCode, phone)
		if err != nil {
			return "", false, err
		}
		return normalized, false, nil
	default:
		return "", false, idmerr.InvalidInput("email/phone", "at least one of email or phone is required")
	}
}

func invalidCredentials() error {
	return idmerr.New(idmerr.ErrCodeInvalidCredentials, "invalid credentials")
}
