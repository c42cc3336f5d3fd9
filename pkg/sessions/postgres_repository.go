package sessions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL session repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

// Create creates a new session
func (r *PostgresRepository) Create(ctx context.Context, params CreateSessionParams) (Session, error) {
	query := `
		INSERT INTO sessions (user_id, jti, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, jti, expires_at, created_at
	`

	var s Session
	err := r.pool.QueryRow(ctx, query, params.UserID, params.JTI, params.ExpiresAt).Scan(
		&s.ID,
		&s.UserID,
		&s.JTI,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Session{}, idmerr.Wrap(err, idmerr.ErrCodeConflict, "session already exists")
		}
		return Session{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to create session")
	}

	return s, nil
}

// GetByJTI retrieves a session by its JTI
func (r *PostgresRepository) GetByJTI(ctx context.Context, jti string) (Session, error) {
	query := `
		SELECT id, user_id, jti, expires_at, created_at
		FROM sessions
		WHERE jti = $1
	`

	var s Session
	err := r.pool.QueryRow(ctx, query, jti).Scan(
		&s.ID,
		&s.UserID,
		&s.JTI,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, idmerr.NotFound("session", jti)
		}
		return Session{}, idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to get session")
	}

	return s, nil
}

// DeleteByJTI deletes a session by JTI. Missing rows are not an error.
func (r *PostgresRepository) DeleteByJTI(ctx context.Context, jti string) error {
	query := `DELETE FROM sessions WHERE jti = $1`

	_, err := r.pool.Exec(ctx, query, jti)
	if err != nil {
		return idmerr.Wrap(err, idmerr.ErrCodeStorageUnavailable, "failed to delete session")
	}

	return nil
}
