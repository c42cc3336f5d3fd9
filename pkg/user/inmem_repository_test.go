package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestCreateRequiresEmailOrPhone(t *testing.T) {
	repo := NewInMemRepository()

	_, err := repo.Create(context.Background(), CreateUserParams{})
	assert.Error(t, err)
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeInvalidInput))
}

func TestCreateEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemRepository()

	_, err := repo.Create(ctx, CreateUserParams{Email: strPtr("dana@example.com")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserParams{Email: strPtr("dana@example.com")})
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeConflict))

	_, err = repo.Create(ctx, CreateUserParams{Phone: strPtr("+14155550123")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserParams{Phone: strPtr("+14155550123")})
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeConflict))
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemRepository()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, CreateUserParams{Email: strPtr("dana@example.com")})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.True(t, idmerr.IsCode(err, idmerr.ErrCodeConflict))
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestFindByEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemRepository()

	created, err := repo.Create(ctx, CreateUserParams{
		Email: strPtr("dana@example.com"),
		Phone: strPtr("+14155550123"),
	})
	require.NoError(t, err)

	byEmail, err := repo.FindByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byPhone, err := repo.FindByPhone(ctx, "+14155550123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, idmerr.IsCode(err, idmerr.ErrCodeNotFound))
}

func TestSummaryRedactsPasswordHash(t *testing.T) {
	u := User{
		Email:        strPtr("dana@example.com"),
		PasswordHash: strPtr("$2a$10$something"),
		Name:         strPtr("Dana"),
	}

	s := u.Summary()
	assert.Equal(t, u.Email, s.Email)
	assert.Equal(t, u.Name, s.Name)
}
