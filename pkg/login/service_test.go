package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/tokens"
	"github.com/famhub/family-idm/pkg/user"
)

func newTestService() (*Service, *user.InMemRepository) {
	tokenService := tokens.NewService(
		tokens.NewJwtTokenGenerator("access-secret", "family-idm", "family-idm"),
		tokens.NewJwtTokenGenerator("refresh-secret", "family-idm", "family-idm"),
	)
	sessionService := sessions.NewService(sessions.NewInMemRepository(), tokenService)
	users := user.NewInMemRepository()
	return NewService(users, sessionService), users
}

func TestSignupWithEmail(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	userID, err := service.Signup(ctx, SignupParams{
		Email:    "dana@example.com",
		Password: "correct horse battery staple",
		Name:     "Dana",
	})
	require.NoError(t, err)

	u, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	// Stored hash must never be the raw password
	assert.NotEqual(t, "correct horse battery staple", *u.PasswordHash)
}

func TestSignupNormalizesPhone(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	_, err := service.Signup(ctx, SignupParams{
		Phone:       "(415) 555-0123",
		CountryCode: "US",
		Password:    "pw123456",
	})
	require.NoError(t, err)

	u, err := users.FindByPhone(ctx, "+14155550123")
	require.NoError(t, err)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "+14155550123", *u.Phone)
}

func TestSignupDuplicateAcrossNotations(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.Signup(ctx, SignupParams{
		Phone:    "+14155550123",
		Password: "pw123456",
	})
	require.NoError(t, err)

	// Same number written differently must hit the same account
	_, err = service.Signup(ctx, SignupParams{
		Phone:       "415-555-0123",
		CountryCode: "US",
		Password:    "pw123456",
	})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeUserAlreadyExists))
}

func TestSignupInvalidPhone(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.Signup(ctx, SignupParams{
		Phone:       "12345",
		CountryCode: "US",
		Password:    "pw123456",
	})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidPhoneNumber))
}

func TestSignupRequiresAnIdentifier(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.Signup(ctx, SignupParams{Password: "pw123456"})
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidInput))
}

func TestSignupWithEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	userID, err := service.Signup(ctx, SignupParams{
		Email:       "x@y.com",
		Phone:       "500000000",
		CountryCode: "+971",
		Password:    "secret1",
	})
	require.NoError(t, err)

	u, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	assert.Equal(t, "x@y.com", *u.Email)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "+971500000000", *u.Phone)

	// Either identifier resolves to the same account
	byEmail, err := users.FindByEmail(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, userID, byEmail.ID)
	byPhone, err := users.FindByPhone(ctx, "+971500000000")
	require.NoError(t, err)
	assert.Equal(t, userID, byPhone.ID)
}

func TestSignupWithEmailAndPhoneChecksBothForDuplicates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.Signup(ctx, SignupParams{
		Phone:    "+971500000000",
		Password: "pw123456",
	})
	require.NoError(t, err)

	_, err = service.Signup(ctx, SignupParams{
		Email:       "x@y.com",
		Phone:       "500000000",
		CountryCode: "+971",
		Password:    "pw123456",
	})
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeUserAlreadyExists))
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	userID, err := service.Signup(ctx, SignupParams{
		Email:    "dana@example.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	result, err := service.Login(ctx, LoginParams{
		Email:    "dana@example.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
	assert.NotEmpty(t, result.Tokens.AccessToken.Token)
	assert.NotEmpty(t, result.Tokens.RefreshToken.Token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	_, err := service.Signup(ctx, SignupParams{
		Email:    "dana@example.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	// OTP-only account with no password hash
	otpOnly := "alex@example.com"
	_, err = users.Create(ctx, user.CreateUserParams{Email: &otpOnly})
	require.NoError(t, err)

	cases := []struct {
		name   string
		params LoginParams
	}{
		{"wrong password", LoginParams{Email: "dana@example.com", Password: "wrong"}},
		{"unknown user", LoginParams{Email: "nobody@example.com", Password: "pw123456"}},
		{"otp-only account", LoginParams{Email: otpOnly, Password: "pw123456"}},
		{"empty password", LoginParams{Email: "dana@example.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Login(ctx, tc.params)
			require.Error(t, err)
			assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidCredentials))

			var ie *idmerr.Error
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, "invalid credentials", ie.Message)
		})
	}
}

func TestLoginWithNormalizedPhone(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	userID, err := service.Signup(ctx, SignupParams{
		Phone:    "+14155550123",
		Password: "pw123456",
	})
	require.NoError(t, err)

	result, err := service.Login(ctx, LoginParams{
		Phone:       "(415) 555-0123",
		CountryCode: "US",
		Password:    "pw123456",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, result.User.ID)
}

func TestGetMe(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	userID, err := service.Signup(ctx, SignupParams{
		Email:    "dana@example.com",
		Password: "pw123456",
		Name:     "Dana",
	})
	require.NoError(t, err)

	summary, err := service.GetMe(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, summary.ID)
	require.NotNil(t, summary.Name)
	assert.Equal(t, "Dana", *summary.Name)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		raw     string
		want    string
		wantErr bool
	}{
		{"us national", "US", "(415) 555-0123", "+14155550123", false},
		{"already e164", "", "+14155550123", "+14155550123", false},
		{"gb national", "GB", "020 7946 0958", "+442079460958", false},
		{"dial prefix", "+971", "500000000", "+971500000000", false},
		{"dial prefix with e164 raw", "+971", "+971500000000", "+971500000000", false},
		{"too short", "US", "12345", "", true},
		{"empty", "US", "", "", true},
		{"letters", "US", "not-a-number", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.region, tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidPhoneNumber))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)

	ok, err := hasher.Verify("pw123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = hasher.Hash("")
	assert.Error(t, err)
}
