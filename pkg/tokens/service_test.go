package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

func newTestService(opts ...Option) *Service {
	return NewService(
		NewJwtTokenGenerator("access-secret", "family-idm", "family-idm"),
		NewJwtTokenGenerator("refresh-secret", "family-idm", "family-idm"),
		opts...,
	)
}

func TestSignAndVerifyAccess(t *testing.T) {
	service := newTestService()
	subject := uuid.New().String()

	tv, err := service.SignAccess(subject)
	require.NoError(t, err)
	assert.NotEmpty(t, tv.Token)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTokenExpiry), tv.Expiry, 5*time.Second)

	claims, err := service.VerifyAccess(tv.Token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestSignRefreshReturnsJTI(t *testing.T) {
	service := newTestService()
	subject := uuid.New().String()

	tv, jti, err := service.SignRefresh(subject)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := service.VerifyRefresh(tv.Token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, subject, claims.Subject)
}

func TestAccessAndRefreshSecretsAreDistinct(t *testing.T) {
	service := newTestService()
	subject := uuid.New().String()

	access, err := service.SignAccess(subject)
	require.NoError(t, err)
	refresh, _, err := service.SignRefresh(subject)
	require.NoError(t, err)

	// An access token must not verify as a refresh token and vice versa
	_, err = service.VerifyRefresh(access.Token)
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeTokenInvalid))

	_, err = service.VerifyAccess(refresh.Token)
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeTokenInvalid))
}

func TestVerifyExpiredToken(t *testing.T) {
	service := newTestService(WithAccessTokenExpiry(-1 * time.Minute))

	tv, err := service.SignAccess(uuid.New().String())
	require.NoError(t, err)

	_, err = service.VerifyAccess(tv.Token)
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeTokenExpired))
}

func TestVerifyGarbageToken(t *testing.T) {
	service := newTestService()

	_, err := service.VerifyAccess("not-a-token")
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeTokenInvalid))
}
