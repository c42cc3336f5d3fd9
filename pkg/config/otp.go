package config

import "time"

// OTPConfig holds one-time passcode settings
type OTPConfig struct {
	// TTL is how long an issued code stays valid
	TTL string `env:"OTP_TTL" env-default:"10m"`

	// CodeLength is the number of digits in a generated code
	CodeLength int `env:"OTP_CODE_LENGTH" env-default:"6"`
}

// ParseTTL parses the OTP TTL duration
func (o OTPConfig) ParseTTL() (time.Duration, error) {
	return parseDurationISO8601(o.TTL)
}
