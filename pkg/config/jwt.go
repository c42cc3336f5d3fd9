package config

import (
	"time"

	"github.com/sosodev/duration"
)

// JWTConfig holds JWT signing configuration.
// Access and refresh tokens use distinct secrets so a leaked access token
// cannot be replayed as a refresh token.
type JWTConfig struct {
	AccessSecret       string `env:"JWT_ACCESS_SECRET" env-default:"very-secure-access-secret"`
	RefreshSecret      string `env:"JWT_REFRESH_SECRET" env-default:"very-secure-refresh-secret"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" env-default:"720h"`
	Issuer             string `env:"JWT_ISSUER" env-default:"family-idm"`
	Audience           string `env:"JWT_AUDIENCE" env-default:"family-idm"`
}

// ParseAccessTokenExpiry parses the access token expiry duration
func (j JWTConfig) ParseAccessTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.AccessTokenExpiry)
}

// ParseRefreshTokenExpiry parses the refresh token expiry duration
func (j JWTConfig) ParseRefreshTokenExpiry() (time.Duration, error) {
	return parseDurationISO8601(j.RefreshTokenExpiry)
}

// parseDurationISO8601 tries to parse duration as ISO8601 first, then Go duration
func parseDurationISO8601(s string) (time.Duration, error) {
	isoDuration, err := duration.Parse(s)
	if err == nil {
		return isoDuration.ToTimeDuration(), nil
	}

	// Fall back to Go duration format
	return time.ParseDuration(s)
}
