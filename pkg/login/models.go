package login

import (
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/user"
)

// SignupParams are the inputs to password signup. At least one of Email or
// Phone is required and both may be given; Phone is raw caller input and
// gets normalized to E.164 against CountryCode before any lookup or write.
type SignupParams struct {
	Email       string
	Phone       string
	CountryCode string
	Password    string
	Name        string
}

// LoginParams are the inputs to password login
type LoginParams struct {
	Email       string
	Phone       string
	CountryCode string
	Password    string
}

// LoginResult is returned on successful password login
type LoginResult struct {
	User   user.Summary       `json:"user"`
	Tokens sessions.TokenPair `json:"tokens"`
}
