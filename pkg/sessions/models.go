package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/famhub/family-idm/pkg/tokens"
)

// Session represents one issued refresh credential. A refresh token with no
// matching session row is revoked by definition, even if its signature still
// verifies.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	JTI       string    `json:"jti"` // JWT ID embedded in the refresh token
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSessionParams represents the request to persist a new session
type CreateSessionParams struct {
	UserID    uuid.UUID
	JTI       string
	ExpiresAt time.Time
}

// TokenPair carries a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  tokens.TokenValue `json:"access_token"`
	RefreshToken tokens.TokenValue `json:"refresh_token"`
}
