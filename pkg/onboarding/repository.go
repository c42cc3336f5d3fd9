package onboarding

import (
	"context"
)

// Repository defines the interface for onboarding data access.
// CompleteProfile owns the whole write: profile update, family,
// membership and locations land together or not at all.
type Repository interface {
	CompleteProfile(ctx context.Context, params CompleteProfileParams) (Result, error)
}
