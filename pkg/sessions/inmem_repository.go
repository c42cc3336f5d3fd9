package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// InMemRepository implements Repository using an in-memory map keyed by JTI
type InMemRepository struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewInMemRepository creates a new in-memory session repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		sessions: make(map[string]Session),
	}
}

// Create creates a new session, enforcing JTI uniqueness
func (r *InMemRepository) Create(ctx context.Context, params CreateSessionParams) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[params.JTI]; exists {
		return Session{}, idmerr.New(idmerr.ErrCodeConflict, "session already exists")
	}

	s := Session{
		ID:        uuid.New(),
		UserID:    params.UserID,
		JTI:       params.JTI,
		ExpiresAt: params.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.sessions[s.JTI] = s

	return s, nil
}

// GetByJTI retrieves a session by JTI
func (r *InMemRepository) GetByJTI(ctx context.Context, jti string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.sessions[jti]
	if !exists {
		return Session{}, idmerr.NotFound("session", jti)
	}
	return s, nil
}

// DeleteByJTI deletes a session by JTI. Missing rows are not an error.
func (r *InMemRepository) DeleteByJTI(ctx context.Context, jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, jti)
	return nil
}
