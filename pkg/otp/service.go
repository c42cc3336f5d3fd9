package otp

import (
	"context"
	"log/slog"
	"time"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/notification"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
	"github.com/famhub/family-idm/pkg/utils"
)

// Default challenge settings
const (
	DefaultTTL        = 10 * time.Minute
	DefaultCodeLength = 6
)

// Service issues and consumes one-time passcodes. Verification is the
// passwordless entry point: consuming a valid code finds or creates the
// user behind the target and issues a fresh session.
type Service struct {
	repo                Repository
	users               user.Repository
	sessionService      *sessions.Service
	notificationManager *notification.NotificationManager

	ttl        time.Duration
	codeLength int
}

// Option is a function that configures a Service
type Option func(*Service)

// WithTTL sets how long issued codes stay valid
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithCodeLength sets the number of digits in generated codes
func WithCodeLength(length int) Option {
	return func(s *Service) {
		s.codeLength = length
	}
}

// NewService creates a new OTP service
func NewService(repo Repository, users user.Repository, sessionService *sessions.Service, notificationManager *notification.NotificationManager, options ...Option) *Service {
	s := &Service{
		repo:                repo,
		users:               users,
		sessionService:      sessionService,
		notificationManager: notificationManager,
		ttl:                 DefaultTTL,
		codeLength:          DefaultCodeLength,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Issue generates a random fixed-width numeric code for the target,
// persists a challenge row and hands the code to the notification manager.
// Delivery failure is logged but does not fail issuance. Prior unconsumed
// challenges for the same target are left untouched; multiple valid codes
// may exist at once and verification checks most-recent-first.
func (s *Service) Issue(ctx context.Context, target string, purpose Purpose) (int, error) {
	if target == "" {
		return 0, idmerr.InvalidInput("target", "cannot be empty")
	}
	if !ValidatePurpose(purpose) {
		return 0, idmerr.InvalidInput("purpose", "must be one of signup, login, invite")
	}

	code := utils.RandomDigits(s.codeLength)
	expiresAt := time.Now().UTC().Add(s.ttl)

	_, err := s.repo.Create(ctx, CreateChallengeParams{
		Target:    target,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		slog.Error("Failed to persist otp challenge", "target", target, "err", err)
		return 0, err
	}

	system := notification.SMSSystem
	if IsEmailTarget(target) {
		system = notification.EmailSystem
	}

	err = s.notificationManager.Send(notification.OtpCodeNotice, system, notification.NotificationData{
		To: target,
		Data: map[string]string{
			"Code":    code,
			"Purpose": string(purpose),
		},
	})
	if err != nil {
		// Fire-and-forget: the challenge stands even if delivery failed
		slog.Warn("Failed to deliver otp code", "target", target, "system", system, "err", err)
	}

	return int(s.ttl.Minutes()), nil
}

// Verify consumes the most recent usable challenge for (target, code),
// finds or creates the user behind the target and issues a fresh session.
// "Already used", "expired" and "never existed" are indistinguishable to
// the caller.
func (s *Service) Verify(ctx context.Context, target, code string, hint ProfileHint) (VerifyResult, error) {
	if target == "" || code == "" {
		return VerifyResult{}, idmerr.InvalidInput("target/code", "cannot be empty")
	}

	now := time.Now().UTC()

	challenge, err := s.repo.FindActive(ctx, target, code, now)
	if err != nil {
		if idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
			return VerifyResult{}, idmerr.New(idmerr.ErrCodeInvalidOrExpiredCode, "invalid or expired code")
		}
		return VerifyResult{}, err
	}

	// Conditional consume: loses against a concurrent verification of the
	// same code, in which case the caller sees the same failure as a wrong
	// code.
	err = s.repo.Consume(ctx, challenge.ID, now)
	if err != nil {
		if idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
			return VerifyResult{}, idmerr.New(idmerr.ErrCodeInvalidOrExpiredCode, "invalid or expired code")
		}
		return VerifyResult{}, err
	}

	u, err := s.findOrCreateUser(ctx, target, hint)
	if err != nil {
		return VerifyResult{}, err
	}

	tokenPair, err := s.sessionService.CreateSession(ctx, u.ID)
	if err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{
		User:   u.Summary(),
		Tokens: tokenPair,
	}, nil
}

// findOrCreateUser reuses the user matching the target or creates one.
// The store's uniqueness constraint is the authority under concurrent
// identical signups: a conflict on create means another request won the
// race, so re-fetch and use the now-existing row.
func (s *Service) findOrCreateUser(ctx context.Context, target string, hint ProfileHint) (user.User, error) {
	find := s.users.FindByPhone
	if IsEmailTarget(target) {
		find = s.users.FindByEmail
	}

	u, err := find(ctx, target)
	if err == nil {
		return u, nil
	}
	if !idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
		return user.User{}, err
	}

	params := user.CreateUserParams{}
	if IsEmailTarget(target) {
		params.Email = &target
	} else {
		params.Phone = &target
	}
	if hint.Name != "" {
		name := hint.Name
		params.Name = &name
	}

	u, err = s.users.Create(ctx, params)
	if err == nil {
		slog.Info("Created user from otp verification", "userId", u.ID)
		return u, nil
	}
	if idmerr.IsCode(err, idmerr.ErrCodeConflict) {
		return find(ctx, target)
	}

	return user.User{}, err
}
