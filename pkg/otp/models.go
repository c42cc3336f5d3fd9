package otp

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
)

// Purpose is the reason a challenge was issued
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
	PurposeInvite Purpose = "invite"
)

// ValidatePurpose checks that a purpose is one of the known values
func ValidatePurpose(p Purpose) bool {
	switch p {
	case PurposeSignup, PurposeLogin, PurposeInvite:
		return true
	}
	return false
}

// Challenge is a single-use code bound to a contact target. Rows are never
// physically deleted; they are retained for audit and replay detection.
type Challenge struct {
	ID         uuid.UUID  `json:"id"`
	Target     string     `json:"target"` // email address or E.164 phone number
	Code       string     `json:"code"`
	Purpose    Purpose    `json:"purpose"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateChallengeParams represents the request to persist a new challenge
type CreateChallengeParams struct {
	Target    string
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
}

// ProfileHint carries optional caller-supplied profile fields applied when
// verification creates a brand-new user.
type ProfileHint struct {
	Name string
}

// VerifyResult is returned on successful verification
type VerifyResult struct {
	User   user.Summary       `json:"user"`
	Tokens sessions.TokenPair `json:"tokens"`
}

// IsEmailTarget reports whether a target looks like an email address
// rather than a phone number.
func IsEmailTarget(target string) bool {
	return strings.Contains(target, "@")
}
