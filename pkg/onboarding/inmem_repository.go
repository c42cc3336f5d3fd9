package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/user"
)

// InMemRepository implements Repository against the in-memory user store.
// Writes are staged and only applied once every step has passed, which
// gives the same all-or-nothing behavior as the PostgreSQL transaction.
type InMemRepository struct {
	mu    sync.Mutex
	users *user.InMemRepository

	families    map[uuid.UUID]Family
	memberships map[uuid.UUID]FamilyMembership
	locations   map[uuid.UUID]Location
	byOwnerName map[string]uuid.UUID
}

// NewInMemRepository creates a new in-memory onboarding repository
func NewInMemRepository(users *user.InMemRepository) *InMemRepository {
	return &InMemRepository{
		users:       users,
		families:    make(map[uuid.UUID]Family),
		memberships: make(map[uuid.UUID]FamilyMembership),
		locations:   make(map[uuid.UUID]Location),
		byOwnerName: make(map[string]uuid.UUID),
	}
}

func ownerNameKey(ownerID uuid.UUID, name string) string {
	return ownerID.String() + "/" + name
}

// CompleteProfile stages the profile update, family, membership and
// locations, then commits them together.
func (r *InMemRepository) CompleteProfile(ctx context.Context, params CompleteProfileParams) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.users.GetByID(ctx, params.UserID)
	if err != nil {
		return Result{}, err
	}

	key := ownerNameKey(params.UserID, params.FamilyName)
	if _, exists := r.byOwnerName[key]; exists {
		return Result{}, idmerr.New(idmerr.ErrCodeConflict, "family already exists for owner")
	}

	// Stage everything before touching shared state
	if params.Profile.Name != nil {
		u.Name = params.Profile.Name
	}
	if params.Profile.Gender != nil {
		u.Gender = params.Profile.Gender
	}
	if params.Profile.BirthDate != nil {
		u.BirthDate = params.Profile.BirthDate
	}
	if params.Profile.AvatarURL != nil {
		u.AvatarURL = params.Profile.AvatarURL
	}

	now := time.Now().UTC()
	family := Family{
		ID:          uuid.New(),
		Name:        params.FamilyName,
		OwnerUserID: params.UserID,
		CreatedAt:   now,
	}
	membership := FamilyMembership{
		ID:        uuid.New(),
		FamilyID:  family.ID,
		UserID:    params.UserID,
		Role:      params.Role,
		CreatedAt: now,
	}
	locations := make([]Location, 0, len(params.Locations))
	for _, p := range params.Locations {
		locations = append(locations, Location{
			ID:        uuid.New(),
			FamilyID:  family.ID,
			Name:      p.Name,
			Address:   p.Address,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			CreatedAt: now,
		})
	}

	// Commit
	r.users.Update(u)
	r.families[family.ID] = family
	r.byOwnerName[key] = family.ID
	r.memberships[membership.ID] = membership
	for _, loc := range locations {
		r.locations[loc.ID] = loc
	}

	return Result{
		User:       u.Summary(),
		Family:     family,
		Membership: membership,
		Locations:  locations,
	}, nil
}

// GetFamily retrieves a family by ID
func (r *InMemRepository) GetFamily(id uuid.UUID) (Family, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, exists := r.families[id]
	return f, exists
}

// LocationsForFamily returns all locations registered for a family
func (r *InMemRepository) LocationsForFamily(familyID uuid.UUID) []Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Location
	for _, loc := range r.locations {
		if loc.FamilyID == familyID {
			out = append(out, loc)
		}
	}
	return out
}
