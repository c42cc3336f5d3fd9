package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     string
		want    time.Duration
		wantErr bool
	}{
		{"go duration", "10m", 10 * time.Minute, false},
		{"iso8601 duration", "PT10M", 10 * time.Minute, false},
		{"iso8601 hours", "PT1H30M", 90 * time.Minute, false},
		{"garbage", "soon", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := OTPConfig{TTL: tc.ttl}.ParseTTL()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseTokenExpiries(t *testing.T) {
	cfg := JWTConfig{
		AccessTokenExpiry:  "15m",
		RefreshTokenExpiry: "P30D",
	}

	access, err := cfg.ParseAccessTokenExpiry()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, access)

	refresh, err := cfg.ParseRefreshTokenExpiry()
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, refresh)
}

func TestToDbConfig(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Database: "family_db",
		User:     "family",
		Password: "pwd",
	}

	dbConfig := cfg.ToDbConfig()
	assert.Equal(t, "db.internal", dbConfig.Host)
	assert.Equal(t, uint16(5433), dbConfig.Port)
	assert.Equal(t, "family_db", dbConfig.Database)
	assert.Equal(t, "family", dbConfig.User)
	assert.Equal(t, "pwd", dbConfig.Password)
}
