package sessions

import (
	"context"
)

// Repository defines the interface for session data access.
// JTI uniqueness is enforced by the store.
type Repository interface {
	// Create a new session
	Create(ctx context.Context, params CreateSessionParams) (Session, error)

	// Get a session by JTI (JWT ID)
	GetByJTI(ctx context.Context, jti string) (Session, error)

	// Delete a session by JTI. Deleting a non-existent session is not an error.
	DeleteByJTI(ctx context.Context, jti string) error
}
