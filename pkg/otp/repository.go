package otp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for OTP challenge data access
type Repository interface {
	// Create a new challenge
	Create(ctx context.Context, params CreateChallengeParams) (Challenge, error)

	// FindActive returns the most recently created unconsumed, unexpired
	// challenge matching (target, code), or ErrCodeNotFound.
	FindActive(ctx context.Context, target, code string, now time.Time) (Challenge, error)

	// Consume marks a challenge consumed. The update is conditional: it
	// succeeds only if consumed_at is still null at write time, and returns
	// ErrCodeNotFound when another request consumed the challenge first.
	Consume(ctx context.Context, id uuid.UUID, now time.Time) error
}
