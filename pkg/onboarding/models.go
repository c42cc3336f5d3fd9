package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/famhub/family-idm/pkg/user"
)

// Role is a member's role within a family
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleSpouse   Role = "SPOUSE"
	RoleSon      Role = "SON"
	RoleDaughter Role = "DAUGHTER"
	RoleGuardian Role = "GUARDIAN"
	RoleOther    Role = "OTHER"
)

// ValidateRole checks that a role is one of the known values
func ValidateRole(r Role) bool {
	switch r {
	case RoleOwner, RoleSpouse, RoleSon, RoleDaughter, RoleGuardian, RoleOther:
		return true
	}
	return false
}

// Family is a household created during onboarding
type Family struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FamilyMembership links a user to a family with a role
type FamilyMembership struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is a named place registered for a family
type Location struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdate holds the profile fields set during onboarding.
// Nil fields are left untouched on the user row.
type ProfileUpdate struct {
	Name      *string
	Gender    *string
	BirthDate *time.Time
	AvatarURL *string
}

// LocationParams describes one location to register during onboarding
type LocationParams struct {
	Name      string
	Address   *string
	Latitude  float64
	Longitude float64
}

// CompleteProfileParams is the full onboarding request for one user
type CompleteProfileParams struct {
	UserID     uuid.UUID
	Profile    ProfileUpdate
	FamilyName string
	Role       Role
	Locations  []LocationParams
}

// Result is everything created or updated by a completed onboarding
type Result struct {
	User       user.Summary     `json:"user"`
	Family     Family           `json:"family"`
	Membership FamilyMembership `json:"membership"`
	Locations  []Location       `json:"locations"`
}
