package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity anchor. Every profile field is optional until
// onboarding; a user must have at least one of email or phone.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	PasswordHash *string    `json:"-"`
	Name         *string    `json:"name,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	CountryCode  *string    `json:"country_code,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Summary is the redacted user view returned to clients.
// It never includes the password hash.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Name      *string   `json:"name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

// Summary returns the redacted view of the user
func (u User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// CreateUserParams are the fields settable at user creation
type CreateUserParams struct {
	Email        *string
	Phone        *string
	PasswordHash *string
	Name         *string
	CountryCode  *string
}
