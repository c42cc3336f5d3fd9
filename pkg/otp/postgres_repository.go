package otp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL OTP repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

// Create creates a new challenge
func (r *PostgresRepository) Create(ctx context.Context, params CreateChallengeParams) (Challenge, error) {
	query := `
		INSERT INTO otp_challenges (target, code, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, target, code, purpose, expires_at, consumed_at, created_at
	`

	var c Challenge
	err := r.pool.QueryRow(ctx, query, params.Target, params.Code, params.Purpose, params.ExpiresAt).Scan(
		&c.ID,
		&c.Target,
		&c.Code,
		&c.Purpose,
		&c.ExpiresAt,
		&c.ConsumedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return Challenge{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create otp challenge")
	}

	return c, nil
}

// FindActive returns the most recent usable challenge for (target, code)
func (r *PostgresRepository) FindActive(ctx context.Context, target, code string, now time.Time) (Challenge, error) {
	query := `
		SELECT id, target, code, purpose, expires_at, consumed_at, created_at
		FROM otp_challenges
		WHERE target = $1 AND code = $2 AND consumed_at IS NULL AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var c Challenge
	err := r.pool.QueryRow(ctx, query, target, code, now).Scan(
		&c.ID,
		&c.Target,
		&c.Code,
		&c.Purpose,
		&c.ExpiresAt,
		&c.ConsumedAt,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, idmerr.NotFound("otp challenge", target)
		}
		return Challenge{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to find otp challenge")
	}

	return c, nil
}

// Consume conditionally marks a challenge consumed. The WHERE clause on
// consumed_at IS NULL is the guard against two concurrent verifications
// of the same code both succeeding.
func (r *PostgresRepository) Consume(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE otp_challenges
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to consume otp challenge")
	}
	if tag.RowsAffected() == 0 {
		return idmerr.NotFound("otp challenge", id.String())
	}

	return nil
}
