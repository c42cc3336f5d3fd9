package tokens

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// Token type constants
const (
	ACCESS_TOKEN_NAME  = "access_token"
	REFRESH_TOKEN_NAME = "refresh_token"
)

// Default token expiry durations
const (
	DefaultAccessTokenExpiry  = 15 * time.Minute
	DefaultRefreshTokenExpiry = 30 * 24 * time.Hour
)

// TokenValue holds a signed token string and its absolute expiry
type TokenValue struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// Service signs and verifies access and refresh tokens. Access and refresh
// tokens are produced by separate generators carrying distinct secrets, so
// a token of one class never verifies as the other.
type Service struct {
	accessGenerator  TokenGenerator
	refreshGenerator TokenGenerator

	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// Option is a function that configures a Service
type Option func(*Service)

// WithAccessTokenExpiry sets the access token expiry duration
func WithAccessTokenExpiry(expiry time.Duration) Option {
	return func(s *Service) {
		s.accessTokenExpiry = expiry
	}
}

// WithRefreshTokenExpiry sets the refresh token expiry duration
func WithRefreshTokenExpiry(expiry time.Duration) Option {
	return func(s *Service) {
		s.refreshTokenExpiry = expiry
	}
}

// NewService creates a new token Service
func NewService(accessGenerator, refreshGenerator TokenGenerator, options ...Option) *Service {
	s := &Service{
		accessGenerator:    accessGenerator,
		refreshGenerator:   refreshGenerator,
		accessTokenExpiry:  DefaultAccessTokenExpiry,
		refreshTokenExpiry: DefaultRefreshTokenExpiry,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// SignAccess produces a signed, time-boxed bearer token for the given subject
func (s *Service) SignAccess(subject string) (TokenValue, error) {
	tokenStr, claims, err := s.accessGenerator.GenerateToken(subject, s.accessTokenExpiry, nil)
	if err != nil {
		slog.Error("Failed to sign access token", "err", err)
		return TokenValue{}, idmerr.InternalWrap(err, "failed to sign access token")
	}
	return TokenValue{Token: tokenStr, Expiry: claims.ExpiresAt.Time}, nil
}

// SignRefresh produces a signed refresh token for the given subject and
// returns the embedded token ID (jti) and absolute expiry alongside it so
// the caller can persist a matching session record.
func (s *Service) SignRefresh(subject string) (TokenValue, string, error) {
	extraClaims := map[string]interface{}{
		"token_type": REFRESH_TOKEN_NAME,
	}
	tokenStr, claims, err := s.refreshGenerator.GenerateToken(subject, s.refreshTokenExpiry, extraClaims)
	if err != nil {
		slog.Error("Failed to sign refresh token", "err", err)
		return TokenValue{}, "", idmerr.InternalWrap(err, "failed to sign refresh token")
	}
	return TokenValue{Token: tokenStr, Expiry: claims.ExpiresAt.Time}, claims.ID, nil
}

// VerifyAccess validates an access token's signature and expiry
func (s *Service) VerifyAccess(tokenStr string) (*Claims, error) {
	return verify(s.accessGenerator, tokenStr)
}

// VerifyRefresh validates a refresh token's signature and expiry.
// Used only by the session manager, never exposed to request middleware.
func (s *Service) VerifyRefresh(tokenStr string) (*Claims, error) {
	claims, err := verify(s.refreshGenerator, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, idmerr.New(idmerr.ErrCodeTokenInvalid, "refresh token missing token id")
	}
	return claims, nil
}

func verify(generator TokenGenerator, tokenStr string) (*Claims, error) {
	claims, err := generator.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, idmerr.Wrap(err, idmerr.ErrCodeTokenExpired, "token expired")
		}
		return nil, idmerr.Wrap(err, idmerr.ErrCodeTokenInvalid, "invalid token")
	}
	return claims, nil
}
