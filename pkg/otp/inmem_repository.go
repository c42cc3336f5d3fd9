package otp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// InMemRepository implements Repository using an in-memory map. Consume is
// guarded by the repository mutex so it honors the same exactly-once
// contract as the PostgreSQL conditional update.
type InMemRepository struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]*Challenge
}

// NewInMemRepository creates a new in-memory OTP repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		challenges: make(map[uuid.UUID]*Challenge),
	}
}

// Create creates a new challenge
func (r *InMemRepository) Create(ctx context.Context, params CreateChallengeParams) (Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Challenge{
		ID:        uuid.New(),
		Target:    params.Target,
		Code:      params.Code,
		Purpose:   params.Purpose,
		ExpiresAt: params.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	r.challenges[c.ID] = c

	return *c, nil
}

// FindActive returns the most recent usable challenge for (target, code)
func (r *InMemRepository) FindActive(ctx context.Context, target, code string, now time.Time) (Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Challenge
	for _, c := range r.challenges {
		if c.Target != target || c.Code != code {
			continue
		}
		if c.ConsumedAt != nil || !c.ExpiresAt.After(now) {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}

	if best == nil {
		return Challenge{}, idmerr.NotFound("otp challenge", target)
	}
	return *best, nil
}

// Consume conditionally marks a challenge consumed
func (r *InMemRepository) Consume(ctx context.Context, id uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.challenges[id]
	if !exists || c.ConsumedAt != nil {
		return idmerr.NotFound("otp challenge", id.String())
	}

	consumedAt := now
	c.ConsumedAt = &consumedAt
	return nil
}
