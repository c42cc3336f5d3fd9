package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// InMemRepository implements Repository using in-memory maps.
// It enforces the same email/phone uniqueness contract as the
// PostgreSQL repository so race behavior is testable without a database.
type InMemRepository struct {
	mu      sync.Mutex
	users   map[uuid.UUID]User
	byEmail map[string]uuid.UUID
	byPhone map[string]uuid.UUID
}

// NewInMemRepository creates a new in-memory user repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		users:   make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
		byPhone: make(map[string]uuid.UUID),
	}
}

// Create creates a new user, enforcing email/phone uniqueness
func (r *InMemRepository) Create(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Email == nil && params.Phone == nil {
		return User{}, idmerr.InvalidInput("user", "at least one of email or phone is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if params.Email != nil {
		if _, exists := r.byEmail[*params.Email]; exists {
			return User{}, idmerr.New(idmerr.ErrCodeConflict, "user already exists")
		}
	}
	if params.Phone != nil {
		if _, exists := r.byPhone[*params.Phone]; exists {
			return User{}, idmerr.New(idmerr.ErrCodeConflict, "user already exists")
		}
	}

	now := time.Now().UTC()
	u := User{
		ID:           uuid.New(),
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: params.PasswordHash,
		Name:         params.Name,
		CountryCode:  params.CountryCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.users[u.ID] = u
	if u.Email != nil {
		r.byEmail[*u.Email] = u.ID
	}
	if u.Phone != nil {
		r.byPhone[*u.Phone] = u.ID
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (r *InMemRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, exists := r.users[id]
	if !exists {
		return User{}, idmerr.NotFound("user", id.String())
	}
	return u, nil
}

// FindByEmail retrieves a user by email
func (r *InMemRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.byEmail[email]
	if !exists {
		return User{}, idmerr.NotFound("user", email)
	}
	return r.users[id], nil
}

// FindByPhone retrieves a user by phone
func (r *InMemRepository) FindByPhone(ctx context.Context, phone string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, exists := r.byPhone[phone]
	if !exists {
		return User{}, idmerr.NotFound("user", phone)
	}
	return r.users[id], nil
}

// Update replaces a stored user and reindexes email/phone.
// Used by the in-memory onboarding repository; not part of Repository.
func (r *InMemRepository) Update(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.users[u.ID]
	if exists {
		if old.Email != nil {
			delete(r.byEmail, *old.Email)
		}
		if old.Phone != nil {
			delete(r.byPhone, *old.Phone)
		}
	}

	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = u
	if u.Email != nil {
		r.byEmail[*u.Email] = u.ID
	}
	if u.Phone != nil {
		r.byPhone[*u.Phone] = u.ID
	}
}
