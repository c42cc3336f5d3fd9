package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/tokens"
)

// Service creates, refreshes and revokes sessions. A session row keyed by
// the refresh token's jti is what makes a refresh token revocable.
type Service struct {
	repo         Repository
	tokenService *tokens.Service
}

// NewService creates a new session service
func NewService(repo Repository, tokenService *tokens.Service) *Service {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
	}
}

// CreateSession signs an access and a refresh token for the user and
// persists a session row keyed by the refresh token's jti.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := s.tokenService.SignAccess(userID.String())
	if err != nil {
		return TokenPair{}, err
	}

	refresh, jti, err := s.tokenService.SignRefresh(userID.String())
	if err != nil {
		return TokenPair{}, err
	}

	_, err = s.repo.Create(ctx, CreateSessionParams{
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: refresh.Expiry,
	})
	if err != nil {
		slog.Error("Failed to persist session", "userId", userID, "err", err)
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// RefreshAccess verifies a refresh token, checks its session row still
// exists and has not expired, and signs a new access token for the same
// subject. The session row is not mutated or rotated.
func (s *Service) RefreshAccess(ctx context.Context, refreshToken string) (tokens.TokenValue, error) {
	claims, err := s.tokenService.VerifyRefresh(refreshToken)
	if err != nil {
		slog.Debug("Refresh token failed verification", "err", err)
		return tokens.TokenValue{}, idmerr.Wrap(err, idmerr.ErrCodeInvalidSession, "invalid session")
	}

	session, err := s.repo.GetByJTI(ctx, claims.ID)
	if err != nil {
		if idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
			return tokens.TokenValue{}, idmerr.New(idmerr.ErrCodeInvalidSession, "invalid session")
		}
		return tokens.TokenValue{}, err
	}

	// Defense in depth: a stored expiry in the past invalidates the session
	// even if the token signature still verifies.
	if session.ExpiresAt.Before(time.Now()) {
		return tokens.TokenValue{}, idmerr.New(idmerr.ErrCodeInvalidSession, "invalid session")
	}

	return s.tokenService.SignAccess(session.UserID.String())
}

// Revoke verifies a refresh token and deletes its session row.
// Idempotent: revoking an already-revoked session still reports success.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenService.VerifyRefresh(refreshToken)
	if err != nil {
		slog.Debug("Refresh token failed verification on revoke", "err", err)
		return idmerr.Wrap(err, idmerr.ErrCodeInvalidSession, "invalid session")
	}

	return s.repo.DeleteByJTI(ctx, claims.ID)
}
