package otp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idmerr "github.com/famhub/family-idm/pkg/errors"
	"github.com/famhub/family-idm/pkg/notification"
	"github.com/famhub/family-idm/pkg/sessions"
	"github.com/famhub/family-idm/pkg/tokens"
	"github.com/famhub/family-idm/pkg/user"
)

type testEnv struct {
	service  *Service
	repo     *InMemRepository
	users    *user.InMemRepository
	notifier *notification.MockNotifier
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	tokenService := tokens.NewService(
		tokens.NewJwtTokenGenerator("access-secret", "family-idm", "family-idm"),
		tokens.NewJwtTokenGenerator("refresh-secret", "family-idm", "family-idm"),
	)
	sessionService := sessions.NewService(sessions.NewInMemRepository(), tokenService)

	notifier := &notification.MockNotifier{}
	nm := notification.NewNotificationManager()
	nm.RegisterNotifier(notification.EmailSystem, notifier)
	nm.RegisterNotifier(notification.SMSSystem, notifier)
	for _, system := range []notification.NotificationSystem{notification.EmailSystem, notification.SMSSystem} {
		require.NoError(t, nm.RegisterNotification(notification.OtpCodeNotice, system, notification.NoticeTemplate{
			Text: "Your verification code is {{.Code}}",
		}))
	}

	repo := NewInMemRepository()
	users := user.NewInMemRepository()
	return &testEnv{
		service:  NewService(repo, users, sessionService, nm, opts...),
		repo:     repo,
		users:    users,
		notifier: notifier,
	}
}

// sentCode pulls the code out of the last notification the service sent
func (e *testEnv) sentCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, e.notifier.SentNotifications)
	last := e.notifier.SentNotifications[len(e.notifier.SentNotifications)-1]
	code := last.Data["Code"]
	require.NotEmpty(t, code)
	return code
}

func TestIssueGeneratesFixedWidthCode(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, WithCodeLength(6))

	minutes, err := env.service.Issue(ctx, "dana@example.com", PurposeSignup)
	require.NoError(t, err)
	assert.Equal(t, int(DefaultTTL.Minutes()), minutes)

	code := env.sentCode(t)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestIssueRejectsUnknownPurpose(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.service.Issue(ctx, "dana@example.com", Purpose("password_reset"))
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidInput))
}

func TestVerifyCreatesUserAndSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	code := env.sentCode(t)

	result, err := env.service.Verify(ctx, target, code, ProfileHint{Name: "Dana"})
	require.NoError(t, err)
	require.NotNil(t, result.User.Email)
	assert.Equal(t, target, *result.User.Email)
	require.NotNil(t, result.User.Name)
	assert.Equal(t, "Dana", *result.User.Name)
	assert.NotEmpty(t, result.Tokens.AccessToken.Token)
	assert.NotEmpty(t, result.Tokens.RefreshToken.Token)
}

func TestVerifyPhoneTarget(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "+14155550123"

	_, err := env.service.Issue(ctx, target, PurposeLogin)
	require.NoError(t, err)
	code := env.sentCode(t)

	result, err := env.service.Verify(ctx, target, code, ProfileHint{})
	require.NoError(t, err)
	require.NotNil(t, result.User.Phone)
	assert.Equal(t, target, *result.User.Phone)
	assert.Nil(t, result.User.Email)
}

func TestVerifyReusesExistingUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	existing, err := env.users.Create(ctx, user.CreateUserParams{Email: &target})
	require.NoError(t, err)

	_, err = env.service.Issue(ctx, target, PurposeLogin)
	require.NoError(t, err)
	code := env.sentCode(t)

	result, err := env.service.Verify(ctx, target, code, ProfileHint{})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.User.ID)
}

func TestVerifyWrongCode(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)

	_, err = env.service.Verify(ctx, target, "000000x", ProfileHint{})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidOrExpiredCode))
}

func TestVerifyReplayFails(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	code := env.sentCode(t)

	_, err = env.service.Verify(ctx, target, code, ProfileHint{})
	require.NoError(t, err)

	// The consumed code must behave exactly like a wrong code
	_, err = env.service.Verify(ctx, target, code, ProfileHint{})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidOrExpiredCode))
}

func TestVerifyExpiredCode(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, WithTTL(-1*time.Minute))
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	code := env.sentCode(t)

	_, err = env.service.Verify(ctx, target, code, ProfileHint{})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidOrExpiredCode))
}

func TestConcurrentVerifyConsumesOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	code := env.sentCode(t)

	const workers = 16
	var wg sync.WaitGroup
	successes := make(chan VerifyResult, workers)
	failures := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := env.service.Verify(ctx, target, code, ProfileHint{})
			if err != nil {
				failures <- err
			} else {
				successes <- result
			}
		}()
	}
	wg.Wait()
	close(successes)
	close(failures)

	assert.Len(t, successes, 1)
	assert.Len(t, failures, workers-1)
	for err := range failures {
		assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidOrExpiredCode))
	}
}

func TestMostRecentCodeWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	target := "dana@example.com"

	_, err := env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	first := env.sentCode(t)

	_, err = env.service.Issue(ctx, target, PurposeSignup)
	require.NoError(t, err)
	second := env.sentCode(t)

	// Both codes stay valid until consumed
	if first != second {
		_, err = env.service.Verify(ctx, target, second, ProfileHint{})
		assert.NoError(t, err)
		_, err = env.service.Verify(ctx, target, first, ProfileHint{})
		assert.NoError(t, err)
	}
}
