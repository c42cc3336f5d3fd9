package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user data access.
// Uniqueness of email and phone is enforced by the store itself and
// surfaced as an ErrCodeConflict error from Create.
type Repository interface {
	// Create a new user. At least one of email or phone must be set.
	Create(ctx context.Context, params CreateUserParams) (User, error)

	// Get a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (User, error)

	// Find a user by email
	FindByEmail(ctx context.Context, email string) (User, error)

	// Find a user by E.164 phone number
	FindByPhone(ctx context.Context, phone string) (User, error)
}
